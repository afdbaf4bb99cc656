package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"trade-thesis-lab/internal/normalization"
	pgstore "trade-thesis-lab/internal/storage/postgres"
)

type importOptions struct {
	input     string
	account   string
	deriveIDs bool
}

func newImportCmd(configPath *string) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON trade export into postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			pool, err := e.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			f, err := os.Open(opts.input)
			if err != nil {
				return fmt.Errorf("open %s: %w", opts.input, err)
			}
			defer f.Close()

			err = runImport(cmd.Context(), e, normalization.NewRunner(
				pgstore.NewTradeRecordStore(pool),
				newNormalizer(e, opts),
				e.log,
			), opts, f, cmd.OutOrStdout())
			e.exportMetrics()
			return err
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "JSON trade export to import")
	cmd.Flags().StringVar(&opts.account, "account", "", "assign every imported trade to this account")
	cmd.Flags().BoolVar(&opts.deriveIDs, "derive-ids", false, "hash account, ticker, open time and strategy when a trade has no id")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newNormalizer(e *env, opts importOptions) *normalization.Normalizer {
	n := normalization.NewNormalizer(e.log)
	n.DeriveMissingIDs = opts.deriveIDs
	return n
}

func runImport(ctx context.Context, e *env, runner *normalization.Runner, opts importOptions, in io.Reader, out io.Writer) error {
	start := time.Now()
	res, err := runner.ImportReader(ctx, opts.account, in)
	if res != nil {
		e.metrics.RecordImport(res.Stored, len(res.Rejections))
	}
	e.metrics.RecordDBQuery("import", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("import %s: %w", opts.input, err)
	}

	fmt.Fprintf(out, "Read %d trades, stored %d, rejected %d\n", res.Read, res.Stored, len(res.Rejections))
	for _, r := range res.Rejections {
		fmt.Fprintf(out, "  - %s\n", r.Error())
	}

	e.metrics.MarkSuccess(time.Now())
	return nil
}
