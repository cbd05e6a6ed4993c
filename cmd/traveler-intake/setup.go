package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
	"github.com/joseph-ayodele/traveler-intake/internal/export"
	"github.com/joseph-ayodele/traveler-intake/internal/pdftext"
	"github.com/joseph-ayodele/traveler-intake/internal/pipeline"
	"github.com/joseph-ayodele/traveler-intake/internal/rename"
	repo "github.com/joseph-ayodele/traveler-intake/internal/repository"
	"github.com/joseph-ayodele/traveler-intake/internal/rules"
)

// Flags shared by the commands. Empty values leave the environment config alone.
var (
	flagRules        string
	flagBackend      string
	flagJournal      string
	flagExport       string
	flagTravelerScan string
	flagMaxProbe     int
	flagDryRun       bool
	flagJSON         bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "rules YAML file (env INTAKE_RULES_FILE)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "page text backend: native|mupdf|pdftotext (env INTAKE_TEXT_BACKEND)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print results as JSON")
}

func addPassFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "plan renames without moving files")
	cmd.Flags().StringVar(&flagJournal, "journal", "", "run journal DSN: postgres URL or sqlite file (env INTAKE_JOURNAL_DSN)")
	cmd.Flags().StringVar(&flagExport, "export", "", "write traveler records to this XLSX file (env INTAKE_EXPORT_PATH)")
	cmd.Flags().StringVar(&flagTravelerScan, "traveler-scan", "", "on an already renamed traveler: continue|stop (env INTAKE_TRAVELER_SCAN)")
	cmd.Flags().IntVar(&flagMaxProbe, "max-probe", 0, "maximum \" (n)\" candidates tried per drawing (env INTAKE_MAX_PROBE)")
}

// loadConfig reads the environment and applies any flags that were set.
func loadConfig() (*common.Config, error) {
	cfg := common.LoadConfig()
	if flagRules != "" {
		cfg.Rules.File = flagRules
	}
	if flagBackend != "" {
		cfg.Text.Backend = flagBackend
	}
	if flagJournal != "" {
		cfg.Journal.DSN = flagJournal
	}
	if flagExport != "" {
		cfg.Export.Path = flagExport
	}
	if flagTravelerScan != "" {
		cfg.Rename.TravelerScan = flagTravelerScan
	}
	if flagMaxProbe != 0 {
		cfg.Rename.MaxProbe = flagMaxProbe
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg common.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func loadRules(path string) (rules.Config, error) {
	if path == "" {
		return rules.Default(), nil
	}
	return rules.Load(path)
}

// buildProcessor wires text source, rules, rename options and the optional
// journal. The returned cleanup closes the journal connection.
func buildProcessor(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*pipeline.Processor, func(), error) {
	rc, err := loadRules(cfg.Rules.File)
	if err != nil {
		return nil, nil, err
	}
	src, err := pdftext.New(cfg.Text, logger)
	if err != nil {
		return nil, nil, err
	}

	proc := pipeline.NewProcessor(logger, src, rc, pipeline.Options{
		DryRun:       flagDryRun,
		MaxProbe:     cfg.Rename.MaxProbe,
		TravelerScan: rename.ScanPolicy(cfg.Rename.TravelerScan),
	})

	cleanup := func() {}
	if cfg.Journal.DSN != "" {
		drv, pool, err := repo.Open(ctx, repo.Config{DSN: cfg.Journal.DSN, DialTimeout: cfg.Journal.DialTimeout}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		journal := repo.NewJournalRepository(drv, logger)
		if err := journal.Migrate(ctx); err != nil {
			repo.Close(drv, pool, logger)
			return nil, nil, err
		}
		proc.Journal = pipeline.NewJournalWriter(journal, logger)
		cleanup = func() { repo.Close(drv, pool, logger) }
	}
	return proc, cleanup, nil
}

// exportRows keeps the travelers that were extracted successfully.
func exportRows(report *pipeline.Report) []export.Row {
	var rows []export.Row
	for _, d := range report.Documents {
		if d.Traveler == nil || d.Commitment == nil {
			continue
		}
		file := d.Path
		for _, op := range d.Renames {
			if op.From == d.Path {
				file = op.To
			}
		}
		rows = append(rows, export.Row{File: file, Traveler: *d.Traveler, Commitment: *d.Commitment})
	}
	return rows
}
