package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	repo "github.com/joseph-ayodele/traveler-intake/internal/repository"
)

var journalCmd = &cobra.Command{
	Use:   "journal-check",
	Short: "Ping the run journal database and create its tables",
	RunE:  runJournalCheck,
}

func init() {
	journalCmd.Flags().StringVar(&flagJournal, "journal", "", "run journal DSN: postgres URL or sqlite file (env INTAKE_JOURNAL_DSN)")
	rootCmd.AddCommand(journalCmd)
}

func runJournalCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.DSN == "" {
		return fmt.Errorf("journal DSN is required (set INTAKE_JOURNAL_DSN or use --journal)")
	}
	logger := newLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	drv, pool, err := repo.Open(ctx, repo.Config{DSN: cfg.Journal.DSN, DialTimeout: cfg.Journal.DialTimeout}, logger)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer repo.Close(drv, pool, logger)

	if err := repo.HealthCheck(ctx, drv, cfg.Journal.DialTimeout, logger); err != nil {
		return fmt.Errorf("journal health: %w", err)
	}
	if err := repo.NewJournalRepository(drv, logger).Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "journal health: OK")
	return nil
}
