package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"actual-importer/internal/actual"
	"actual-importer/internal/config"
	"actual-importer/internal/financeapi"
	"actual-importer/internal/importer"
	"actual-importer/internal/logger"
)

const (
	dateLayout = "2006-01-02"
	runTimeout = 10 * time.Minute

	// Window fetched when no start date is given.
	defaultLookback = 30 * 24 * time.Hour
)

var verbose bool

// Execute runs the CLI and exits non-zero on any fatal error.
func Execute() {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		startDateStr string
		endDateStr   string
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:           "actual-importer",
		Short:         "Import transactions from the finance API into Actual Budget",
		Long:          "Fetches transactions from the finance-tracking API, normalizes them and imports them into Actual Budget, skipping anything already imported.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), startDateStr, endDateStr, dryRun)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	cmd.Flags().StringVar(&startDateStr, "start-date", "", "start date (YYYY-MM-DD), defaults to 30 days ago")
	cmd.Flags().StringVar(&endDateStr, "end-date", "", "end date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the import without writing to Actual")

	cmd.AddCommand(newAccountsCmd())

	return cmd
}

func runImport(parent context.Context, startDateStr, endDateStr string, dryRun bool) error {
	log := newLogger()

	ctx, cancel := context.WithTimeout(parent, runTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	start, end, err := resolveWindow(log, startDateStr, endDateStr)
	if err != nil {
		return err
	}

	if dryRun {
		log.Info().Msg("DRY RUN MODE - no transactions will be imported")
	}

	src := financeapi.New(cfg.FinanceAPIURL, cfg.FinanceAPIUsername, cfg.FinanceAPIPassword)
	dst := actual.New(cfg.ActualServerURL, cfg.ActualPassword, cfg.ActualEncryptionKey, cfg.ActualBudgetID)

	imp := importer.New(src, dst, cfg, dryRun)
	stats, _, runErr := imp.Run(ctx, start, end)

	// The summary is printed even when some records failed; only a nil
	// stats (fatal before processing started) suppresses it.
	if stats != nil {
		printSummary(stats)
	}
	if runErr != nil {
		return fmt.Errorf("import failed: %w", runErr)
	}
	return nil
}

func resolveWindow(log zerolog.Logger, startDateStr, endDateStr string) (time.Time, time.Time, error) {
	now := time.Now()

	if startDateStr == "" {
		startDateStr = now.Add(-defaultLookback).Format(dateLayout)
		log.Info().Str("start_date", startDateStr).Msg("No start date provided, using default")
	}
	if endDateStr == "" {
		endDateStr = now.Format(dateLayout)
		log.Info().Str("end_date", endDateStr).Msg("No end date provided, using default")
	}

	start, err := time.Parse(dateLayout, startDateStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start-date %q, expected YYYY-MM-DD", startDateStr)
	}
	end, err := time.Parse(dateLayout, endDateStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end-date %q, expected YYYY-MM-DD", endDateStr)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end-date %s is before start-date %s", endDateStr, startDateStr)
	}
	return start, end, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return logger.New(level)
}
