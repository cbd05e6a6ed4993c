package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/traveler-intake/internal/export"
	"github.com/joseph-ayodele/traveler-intake/internal/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process DIR",
	Short: "Run one intake pass over a directory",
	Long:  "Classify every PDF in DIR, extract purchase-order job numbers and traveler records, compute commitment dates and rename drawings and travelers. Unlinked drawings are renamed last.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func init() {
	addPassFlags(processCmd)
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	proc, cleanup, err := buildProcessor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	report, passErr := proc.ProcessDirectory(ctx, args[0])
	if report == nil {
		return passErr
	}

	if cfg.Export.Path != "" {
		if err := export.NewService(logger).WriteFile(ctx, cfg.Export.Path, exportRows(report)); err != nil {
			logger.Error("export failed", "path", cfg.Export.Path, "error", err)
			if passErr == nil {
				passErr = err
			}
		}
	}

	if err := printReport(cmd.OutOrStdout(), report, flagJSON); err != nil {
		return err
	}
	return passErr
}

func printReport(w io.Writer, report *pipeline.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, d := range report.Documents {
		line := fmt.Sprintf("%-18s %s", d.Status, d.Path)
		if d.JobNumber != "" {
			line += "  job=" + d.JobNumber
		}
		if d.Commitment != nil {
			line += "  commit=" + d.Commitment.String()
		}
		if d.Err != "" {
			line += "  error=" + d.Err
		}
		fmt.Fprintln(w, line)
		for _, op := range d.Renames {
			fmt.Fprintf(w, "    %s -> %s\n", op.From, op.To)
		}
	}
	for _, op := range report.Unlinked.Ops {
		fmt.Fprintf(w, "unlinked  %s -> %s\n", op.From, op.To)
	}

	s := report.Stats
	verb := "renamed"
	if report.DryRun {
		verb = "planned"
	}
	fmt.Fprintf(w, "scanned=%d matched=%d travelers=%d purchase_orders=%d unrecognized=%d failed=%d missing=%d already_processed=%d %s=%d\n",
		s.Scanned, s.Matched, s.Travelers, s.PurchaseOrders, s.Unrecognized, s.Failed, s.Missing, s.AlreadyProcessed, verb, s.Renamed)
	return nil
}
