package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
	"github.com/joseph-ayodele/traveler-intake/internal/repository"
	"github.com/joseph-ayodele/traveler-intake/internal/rename"
)

// JournalWriter mirrors pass outcomes into the run journal. Journal errors
// are logged and never fail a pass. A nil *JournalWriter is a no-op.
type JournalWriter struct {
	repo    repository.JournalRepository
	logger  *slog.Logger
	started time.Time
}

func NewJournalWriter(repo repository.JournalRepository, logger *slog.Logger) *JournalWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalWriter{repo: repo, logger: logger}
}

func (j *JournalWriter) start(ctx context.Context, report *Report) {
	if j == nil {
		return
	}
	j.started = time.Now()
	err := j.repo.StartRun(ctx, repository.Run{
		ID:        report.RunID,
		Dir:       report.Dir,
		DryRun:    report.DryRun,
		StartedAt: j.started,
	})
	j.warn(ctx, err)
}

// document and renames take the run ID from ctx.
func (j *JournalWriter) document(ctx context.Context, res DocumentResult) {
	if j == nil {
		return
	}
	runID := common.RunIDFromContext(ctx)
	doc := repository.Document{
		ID:        res.DocumentID,
		RunID:     runID,
		Path:      res.Path,
		Status:    string(res.Status),
		JobNumber: res.JobNumber,
		Error:     res.Err,
		Renames:   toRenames(res.Renames),
	}
	for _, k := range res.Kinds {
		doc.Kinds = append(doc.Kinds, k.String())
	}
	if res.Traveler != nil {
		doc.PONumber = res.Traveler.PONumber
	}
	if res.Commitment != nil {
		doc.Commitment = res.Commitment.String()
	}
	j.warn(ctx, j.repo.RecordDocument(ctx, doc))
}

func (j *JournalWriter) renames(ctx context.Context, ops []rename.Op) {
	if j == nil {
		return
	}
	j.warn(ctx, j.repo.RecordRenames(ctx, common.RunIDFromContext(ctx), toRenames(ops)))
}

func (j *JournalWriter) finish(ctx context.Context, report *Report, runErr error) {
	if j == nil {
		return
	}
	run := repository.Run{
		ID:               report.RunID,
		Dir:              report.Dir,
		DryRun:           report.DryRun,
		StartedAt:        j.started,
		FinishedAt:       time.Now(),
		Scanned:          int(report.Stats.Scanned),
		Recognized:       int(report.Stats.Matched),
		Failed:           int(report.Stats.Failed),
		Missing:          int(report.Stats.Missing),
		Renamed:          int(report.Stats.Renamed),
		AlreadyProcessed: int(report.Stats.AlreadyProcessed),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	// the pass context may already be cancelled; the audit row is still wanted
	j.warn(ctx, j.repo.FinishRun(context.WithoutCancel(ctx), run))
}

func (j *JournalWriter) warn(ctx context.Context, err error) {
	if err != nil {
		j.logger.Warn("processor.journal.write_failed", "run_id", common.RunIDFromContext(ctx), "err", err)
	}
}

func toRenames(ops []rename.Op) []repository.Rename {
	out := make([]repository.Rename, 0, len(ops))
	for _, op := range ops {
		out = append(out, repository.Rename{From: op.From, To: op.To})
	}
	return out
}
