// Package grouping partitions trades into per-ticker clusters of related activity.
package grouping

import (
	"sort"
	"time"

	"trade-thesis-lab/internal/domain"
)

// DefaultWindowDays is the maximum calendar-day gap between consecutive
// trades of one cluster.
const DefaultWindowDays = 14

// MinClusterSize is the smallest cluster that is ever emitted.
const MinClusterSize = 2

// GroupByTicker partitions trades by ticker and chains each partition into
// clusters where every consecutive gap is at most windowDays.
// Only consecutive gaps are considered, not the total span: a long run of
// trades a week apart stays one cluster, while two trades 15 days apart never do.
// Clusters smaller than MinClusterSize are dropped.
// A non-positive windowDays falls back to DefaultWindowDays.
// Returned clusters are ordered by ticker, then by first OpenedAt.
func GroupByTicker(trades []domain.TradeRecord, windowDays int) []domain.TradeCluster {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if len(trades) < MinClusterSize {
		return nil
	}

	byTicker := make(map[string][]domain.TradeRecord)
	for _, t := range trades {
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var clusters []domain.TradeCluster
	for _, ticker := range tickers {
		partition := byTicker[ticker]
		if len(partition) < MinClusterSize {
			continue
		}
		SortByOpenedAt(partition)
		clusters = append(clusters, chain(ticker, partition, windowDays)...)
	}

	return clusters
}

// chain walks a sorted partition and cuts it wherever a gap exceeds windowDays.
func chain(ticker string, sorted []domain.TradeRecord, windowDays int) []domain.TradeCluster {
	var out []domain.TradeCluster
	current := []domain.TradeRecord{sorted[0]}

	flush := func() {
		if len(current) >= MinClusterSize {
			out = append(out, domain.TradeCluster{Ticker: ticker, Trades: current})
		}
	}

	for _, t := range sorted[1:] {
		prev := current[len(current)-1]
		if DaysBetween(prev.OpenedAt, t.OpenedAt) <= windowDays {
			current = append(current, t)
			continue
		}
		flush()
		current = []domain.TradeRecord{t}
	}
	flush()

	return out
}

// SortByOpenedAt sorts trades in place by OpenedAt ASC, ID ASC.
func SortByOpenedAt(trades []domain.TradeRecord) {
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].OpenedAt.Equal(trades[j].OpenedAt) {
			return trades[i].OpenedAt.Before(trades[j].OpenedAt)
		}
		return trades[i].ID < trades[j].ID
	})
}

// DaysBetween returns the number of UTC calendar dates from a to b,
// reported as an absolute value. Times of day are ignored, so Mar 1 20:00
// and Mar 16 09:00 are 15 days apart.
func DaysBetween(a, b time.Time) int {
	d := calendarDay(b) - calendarDay(a)
	if d < 0 {
		d = -d
	}
	return int(d)
}

const secondsPerDay = 24 * 60 * 60

// calendarDay numbers the UTC date of t, counting from the Unix epoch.
func calendarDay(t time.Time) int64 {
	secs := t.Unix()
	day := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		day--
	}
	return day
}

// Span returns the calendar days between the earliest and latest OpenedAt of
// the cluster. Clusters with fewer than two trades have a span of zero.
func Span(c domain.TradeCluster) int {
	if len(c.Trades) < 2 {
		return 0
	}
	earliest := c.Trades[0].OpenedAt
	latest := earliest
	for _, t := range c.Trades[1:] {
		if t.OpenedAt.Before(earliest) {
			earliest = t.OpenedAt
		}
		if t.OpenedAt.After(latest) {
			latest = t.OpenedAt
		}
	}
	return DaysBetween(earliest, latest)
}
