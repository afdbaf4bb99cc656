package reporting

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable renders a terminal table with one line per suggestion.
func RenderTable(r *Report) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Thesis suggestions (min confidence %d)", r.MinConfidence))

	t.AppendHeader(table.Row{"#", "Name", "Pattern", "Direction", "Conf", "Trades", "Net D/C", "Realized"})
	for i, row := range r.Rows {
		s := row.Suggestion
		t.AppendRow(table.Row{
			i + 1,
			s.SuggestedName,
			s.Pattern,
			s.SuggestedDirection,
			s.Confidence,
			joinIDs(s.TradeIDs),
			row.NetDebitCredit.StringFixed(2),
			plLabel(row),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%d trades", r.TradeCount), "",
		fmt.Sprintf("%d below", r.BelowThreshold)})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	return t.Render() + "\n"
}

func joinIDs(ids []string) string {
	const maxIDs = 4
	if len(ids) <= maxIDs {
		return fmt.Sprint(ids)
	}
	return fmt.Sprintf("%v +%d", ids[:maxIDs], len(ids)-maxIDs)
}
