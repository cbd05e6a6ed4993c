package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	logger := r.logger.With(
		"run_id", common.RunIDFromContext(ctx),
		"document_id", common.DocumentIDFromContext(ctx),
	)
	if err != nil {
		logger.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	} else {
		logger.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
		)
	}
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// PopplerSource shells out to poppler's pdftotext.
type PopplerSource struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

// NewPopplerSource creates a source running bin (default "pdftotext"). A nil
// runner executes the real binary.
func NewPopplerSource(bin string, runner Runner, logger *slog.Logger) *PopplerSource {
	if bin == "" {
		bin = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = execRunner{logger: logger}
	}
	return &PopplerSource{bin: bin, runner: runner, logger: logger}
}

func (s *PopplerSource) Pages(ctx context.Context, path string, limit int) ([]string, error) {
	// pdftotext -raw -enc UTF-8 -eol unix [-f 1 -l N] <path> -
	args := []string{"-raw", "-enc", "UTF-8", "-eol", "unix"}
	if limit > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(limit))
	}
	args = append(args, path, "-")

	out, errb, err := s.runner.Run(ctx, s.bin, args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w (%s)", s.bin, path, err, strings.TrimSpace(string(errb)))
	}

	// pages are separated by form feeds, and the last one is terminated by one
	text := strings.TrimSuffix(string(out), "\f")
	pages := strings.Split(text, "\f")
	if limit > 0 && len(pages) > limit {
		pages = pages[:limit]
	}
	s.logger.Debug("pdf text extracted", "backend", "pdftotext", "file", path, "pages", len(pages))
	return pages, nil
}
