package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/fixtures"
	"trade-thesis-lab/internal/grouping"
	"trade-thesis-lab/internal/normalization"
	"trade-thesis-lab/internal/orchestrator"
	"trade-thesis-lab/internal/reporting"
	pgstore "trade-thesis-lab/internal/storage/postgres"
)

type suggestOptions struct {
	input         string
	useFixtures   bool
	account       string
	since         string
	format        string
	minConfidence int
	windowDays    int
	hashIDs       bool
	output        string
	textfile      string
	metricsAddr   string
}

func newSuggestCmd(configPath *string) *cobra.Command {
	var opts suggestOptions

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Group trades and print thesis suggestions",
		Long: "Reads trades from a JSON export (--input), the demo book (--use-fixtures)\n" +
			"or the trade database (--account) and prints ranked thesis suggestions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer e.close()

			if cmd.Flags().Changed("min-confidence") {
				e.cfg.Engine.MinConfidence = opts.minConfidence
			}
			if cmd.Flags().Changed("window-days") {
				e.cfg.Engine.WindowDays = opts.windowDays
			}
			if opts.textfile != "" {
				e.cfg.Metrics.Textfile = opts.textfile
			}
			if opts.format == "" {
				opts.format = e.cfg.Output.Format
			}
			if err := e.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return fmt.Errorf("create %s: %w", opts.output, err)
				}
				defer f.Close()
				out = f
			}

			if err := runSuggest(cmd.Context(), e, opts, out); err != nil {
				return err
			}
			e.exportMetrics()

			if opts.metricsAddr == "" {
				return nil
			}
			ln, err := net.Listen("tcp", opts.metricsAddr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", opts.metricsAddr, err)
			}
			return e.serveMetrics(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "JSON trade export to read")
	cmd.Flags().BoolVar(&opts.useFixtures, "use-fixtures", false, "use the built-in demo trade book")
	cmd.Flags().StringVar(&opts.account, "account", "", "load this account's trades from postgres")
	cmd.Flags().StringVar(&opts.since, "since", "", "with --account, only trades opened on or after this date")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: table|markdown|csv|json (default from config)")
	cmd.Flags().IntVar(&opts.minConfidence, "min-confidence", orchestrator.DefaultMinConfidence, "drop suggestions scoring below this")
	cmd.Flags().IntVar(&opts.windowDays, "window-days", grouping.DefaultWindowDays, "largest gap in days between consecutive trades of one cluster")
	cmd.Flags().BoolVar(&opts.hashIDs, "hash-ids", false, "derive suggestion ids from trade ids instead of random UUIDs")
	cmd.Flags().StringVar(&opts.output, "output", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVar(&opts.textfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "after the report, serve /metrics on this address until interrupted")
	cmd.MarkFlagsMutuallyExclusive("input", "use-fixtures", "account")

	return cmd
}

// tradeSource is what a suggestion run reads.
type tradeSource struct {
	name       string
	trades     []domain.TradeRecord
	rejections []error
}

func runSuggest(ctx context.Context, e *env, opts suggestOptions, out io.Writer) error {
	orchOpts := orchestrator.Options{
		MinConfidence: &e.cfg.Engine.MinConfidence,
		WindowDays:    e.cfg.Engine.WindowDays,
		Logger:        e.log,
		Metrics:       e.metrics,
	}
	if opts.hashIDs {
		orchOpts.NewID = orchestrator.HashGenerator()
	}

	var (
		src tradeSource
		err error
	)
	switch {
	case opts.useFixtures:
		src = tradeSource{name: "fixtures", trades: fixtures.Trades()}
	case opts.input != "":
		src, err = readInputFile(opts.input, e.log)
	case opts.account != "":
		src, err = loadAccount(ctx, e, orchOpts, opts)
	default:
		return errors.New("one of --input, --use-fixtures or --account is required")
	}
	if err != nil {
		return err
	}

	orch := orchestrator.New(orchOpts)
	evals := orch.Evaluate(src.trades)

	report := reporting.Build(reporting.Input{
		GeneratedAt:   time.Now().UTC(),
		Source:        src.name,
		MinConfidence: orch.MinConfidence(),
		TradeCount:    len(src.trades),
		Evaluations:   evals,
		Rejections:    src.rejections,
	})

	rendered, err := reporting.Render(opts.format, report)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	e.metrics.MarkSuccess(time.Now())
	return nil
}

func readInputFile(path string, log *zap.Logger) (tradeSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return tradeSource{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	raws, err := normalization.DecodeTrades(f)
	if err != nil {
		return tradeSource{}, fmt.Errorf("%s: %w", path, err)
	}

	records, rejections := normalization.NewNormalizer(log).NormalizeAll(raws)
	src := tradeSource{name: path, trades: records}
	for _, r := range rejections {
		src.rejections = append(src.rejections, r)
	}
	return src, nil
}

func loadAccount(ctx context.Context, e *env, orchOpts orchestrator.Options, opts suggestOptions) (tradeSource, error) {
	var since *time.Time
	if opts.since != "" {
		t, ok := normalization.ParseTime(opts.since)
		if !ok {
			return tradeSource{}, fmt.Errorf("invalid --since %q", opts.since)
		}
		since = &t
	}

	pool, err := e.connect(ctx)
	if err != nil {
		return tradeSource{}, err
	}
	defer pool.Close()

	orchOpts.Store = pgstore.NewTradeRecordStore(pool)
	start := time.Now()
	trades, err := orchestrator.New(orchOpts).LoadAccount(ctx, opts.account, since)
	e.metrics.RecordDBQuery("load_account", time.Since(start), err)
	if err != nil {
		return tradeSource{}, err
	}

	e.log.Info("loaded trades", zap.String("account_id", opts.account), zap.Int("trades", len(trades)))
	return tradeSource{name: "account " + opts.account, trades: trades}, nil
}
