package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/marketdata"
	"github.com/aristath/sepascan/internal/report"
	"github.com/aristath/sepascan/internal/scan"
	"github.com/aristath/sepascan/internal/snapshot"
	"github.com/aristath/sepascan/pkg/logger"
)

var (
	flagConfig    string
	flagBars      string
	flagBenchmark string
	flagOut       string
	flagCSV       string
	flagDB        string
	flagSchedule  string
	flagWorkers   int
)

var rootCmd = &cobra.Command{
	Use:   "sepascan",
	Short: "Stage-2 base and breakout scanner for daily bar universes",
	Long: `sepascan scores a universe of instruments from daily OHLCV bars:
trend template, base identification and classification, pivot and risk
levels, cross-sectional relative strength, and a composite grade.`,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan cycle over a directory of bar files",
	Long: `Run a scan cycle over every CSV bar file in the bars directory.

Example usage:
  sepascan scan --bars ./bars --benchmark SPY --csv report.csv
  sepascan scan --bars ./bars --db snapshots.db --schedule "0 22 * * 1-5"`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	scanCmd.Flags().StringVar(&flagBars, "bars", "", "Directory of per-symbol CSV bar files (required)")
	scanCmd.Flags().StringVar(&flagBenchmark, "benchmark", "", "Benchmark symbol for the RS fallback")
	scanCmd.Flags().StringVar(&flagOut, "out", "", "Write full JSON results to this file ('-' for stdout)")
	scanCmd.Flags().StringVar(&flagCSV, "csv", "", "Write the CSV summary report to this file")
	scanCmd.Flags().StringVar(&flagDB, "db", "", "Record snapshots into this SQLite database")
	scanCmd.Flags().StringVar(&flagSchedule, "schedule", "", "Cron expression; keep running and scan on schedule")
	scanCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker pool size (0 = default)")
	_ = scanCmd.MarkFlagRequired("bars")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	var recorder *snapshot.Recorder
	if flagDB != "" {
		recorder, err = snapshot.NewRecorder(flagDB)
		if err != nil {
			return err
		}
		defer recorder.Close()
	}

	run := func(ctx context.Context) error {
		return runCycle(ctx, cfg, log, recorder)
	}

	if flagSchedule == "" {
		return run(cmd.Context())
	}
	return runScheduled(cmd.Context(), log, run)
}

// runCycle loads the universe fresh, scans it, and writes every requested
// output. Bars are re-read each cycle so a scheduled run picks up new data.
func runCycle(ctx context.Context, cfg *config.Config, log zerolog.Logger, recorder *snapshot.Recorder) error {
	instruments, err := marketdata.LoadDir(flagBars)
	if err != nil {
		return err
	}

	engine := scan.NewEngine(cfg, log, flagWorkers)

	if flagBenchmark != "" {
		bench, rest := splitBenchmark(instruments, flagBenchmark)
		if bench == nil {
			log.Warn().Str("symbol", flagBenchmark).Err(domain.ErrMissingBenchmark).
				Msg("Benchmark not found in bars directory")
		} else if err := engine.SetBenchmark(*bench); err != nil {
			log.Warn().Err(err).Msg("Benchmark unusable for the RS fallback")
		} else {
			instruments = rest
		}
	}

	cycle, err := engine.ScanUniverse(ctx, instruments)
	if err != nil {
		return err
	}

	if setups := report.PreBreakout(cycle.Results); len(setups) > 0 {
		for _, r := range setups {
			log.Info().
				Str("symbol", r.Symbol).
				Str("grade", string(r.Grade)).
				Float64("distance_to_pivot_pct", r.Breakout.DistanceToPivotPct).
				Msg("Pre-breakout setup")
		}
	}

	if flagOut != "" {
		if err := writeJSON(flagOut, cycle.Results); err != nil {
			return err
		}
	}
	if flagCSV != "" {
		f, err := os.Create(flagCSV)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		if err := report.WriteCSV(f, cycle.Results); err != nil {
			return err
		}
	}
	if recorder != nil {
		if err := recorder.Record(cycle.ID, cycle.Results); err != nil {
			return err
		}
	}
	return nil
}

// runScheduled runs cycles on the cron schedule until interrupted.
func runScheduled(ctx context.Context, log zerolog.Logger, run func(context.Context) error) error {
	c := cron.New()
	_, err := c.AddFunc(flagSchedule, func() {
		if err := run(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled scan failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", flagSchedule, err)
	}
	c.Start()
	defer c.Stop()
	log.Info().Str("schedule", flagSchedule).Msg("Scheduler started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-sig:
	}
	log.Info().Msg("Scheduler stopping")
	return nil
}

func splitBenchmark(instruments []domain.Series, symbol string) (*domain.Series, []domain.Series) {
	for i, s := range instruments {
		if s.Symbol == symbol {
			bench := s
			rest := append(append([]domain.Series{}, instruments[:i]...), instruments[i+1:]...)
			return &bench, rest
		}
	}
	return nil, instruments
}

func writeJSON(path string, results []domain.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
