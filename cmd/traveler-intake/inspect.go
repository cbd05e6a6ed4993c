package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Classify and extract one document without renaming anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log, os.Stderr)

	// inspect never touches the journal
	cfg.Journal.DSN = ""
	proc, cleanup, err := buildProcessor(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := proc.Inspect(context.Background(), args[0])
	if err != nil && !errors.Is(err, common.ErrUnrecognizedDocument) && !errors.Is(err, common.ErrExtractionFailed) {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(res); encErr != nil {
		return encErr
	}
	return err
}
