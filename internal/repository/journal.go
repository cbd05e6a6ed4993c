package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// Run is one directory pass.
type Run struct {
	ID         string
	Dir        string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time

	Scanned          int
	Recognized       int
	Failed           int
	Missing          int
	Renamed          int
	AlreadyProcessed int
	Error            string
}

// Document is the outcome of one document within a run.
type Document struct {
	ID         string
	RunID      string
	Path       string
	Kinds      []string
	Status     string
	JobNumber  string
	PONumber   string
	Commitment string
	Error      string
	Renames    []Rename
}

// Rename is one executed (or, in dry-run mode, planned) rename. DocumentID is
// empty for renames not tied to a document, such as unlinked drawings.
type Rename struct {
	DocumentID string
	From       string
	To         string
}

// JournalRepository is a write-only audit trail of directory passes. Nothing
// in processing reads it back.
type JournalRepository interface {
	Migrate(ctx context.Context) error
	StartRun(ctx context.Context, run Run) error
	RecordDocument(ctx context.Context, doc Document) error
	RecordRenames(ctx context.Context, runID string, renames []Rename) error
	FinishRun(ctx context.Context, run Run) error
}

type journalRepo struct {
	drv *entsql.Driver
	log *slog.Logger
}

func NewJournalRepository(drv *entsql.Driver, log *slog.Logger) JournalRepository {
	if log == nil {
		log = slog.Default()
	}
	return &journalRepo{drv: drv, log: log}
}

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS intake_runs (
		id TEXT PRIMARY KEY,
		dir TEXT NOT NULL,
		dry_run BOOLEAN NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		scanned INTEGER NOT NULL DEFAULT 0,
		recognized INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		missing INTEGER NOT NULL DEFAULT 0,
		renamed INTEGER NOT NULL DEFAULT 0,
		already_processed INTEGER NOT NULL DEFAULT 0,
		error TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS intake_documents (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES intake_runs(id),
		path TEXT NOT NULL,
		kinds TEXT NOT NULL,
		status TEXT NOT NULL,
		job_number TEXT,
		po_number TEXT,
		commitment TEXT,
		error TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS intake_renames (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES intake_runs(id),
		document_id TEXT,
		from_name TEXT NOT NULL,
		to_name TEXT NOT NULL
	)`,
}

func (r *journalRepo) Migrate(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if err := r.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			r.log.Error("journal migrate failed", "err", err)
			return fmt.Errorf("migrate journal: %w", err)
		}
	}
	return nil
}

func (r *journalRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.drv.Dialect())
}

func (r *journalRepo) StartRun(ctx context.Context, run Run) error {
	query, args := r.builder().Insert("intake_runs").
		Columns("id", "dir", "dry_run", "started_at").
		Values(run.ID, run.Dir, run.DryRun, formatTime(run.StartedAt)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("journal run start failed", "run_id", run.ID, "err", err)
		return err
	}
	r.log.Debug("journal run started", "run_id", run.ID, "dir", run.Dir)
	return nil
}

// RecordDocument stores the document outcome and its renames in one transaction.
func (r *journalRepo) RecordDocument(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return err
	}
	query, args := r.builder().Insert("intake_documents").
		Columns("id", "run_id", "path", "kinds", "status", "job_number", "po_number", "commitment", "error").
		Values(doc.ID, doc.RunID, doc.Path, strings.Join(doc.Kinds, ","), doc.Status,
			nullable(doc.JobNumber), nullable(doc.PONumber), nullable(doc.Commitment), nullable(doc.Error)).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		_ = tx.Rollback()
		r.log.Error("journal document insert failed", "run_id", doc.RunID, "path", doc.Path, "err", err)
		return err
	}
	for i := range doc.Renames {
		doc.Renames[i].DocumentID = doc.ID
	}
	if err := r.insertRenames(ctx, tx, doc.RunID, doc.Renames); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *journalRepo) RecordRenames(ctx context.Context, runID string, renames []Rename) error {
	return r.insertRenames(ctx, r.drv, runID, renames)
}

type execer interface {
	Exec(ctx context.Context, query string, args, v any) error
}

func (r *journalRepo) insertRenames(ctx context.Context, ex execer, runID string, renames []Rename) error {
	if len(renames) == 0 {
		return nil
	}
	ins := r.builder().Insert("intake_renames").Columns("id", "run_id", "document_id", "from_name", "to_name")
	for _, rn := range renames {
		ins = ins.Values(uuid.NewString(), runID, nullable(rn.DocumentID), rn.From, rn.To)
	}
	query, args := ins.Query()
	if err := ex.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("journal rename insert failed", "run_id", runID, "count", len(renames), "err", err)
		return err
	}
	return nil
}

func (r *journalRepo) FinishRun(ctx context.Context, run Run) error {
	query, args := r.builder().Update("intake_runs").
		Set("finished_at", formatTime(run.FinishedAt)).
		Set("scanned", run.Scanned).
		Set("recognized", run.Recognized).
		Set("failed", run.Failed).
		Set("missing", run.Missing).
		Set("renamed", run.Renamed).
		Set("already_processed", run.AlreadyProcessed).
		Set("error", nullable(run.Error)).
		Where(entsql.EQ("id", run.ID)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("journal run finish failed", "run_id", run.ID, "err", err)
		return err
	}
	r.log.Debug("journal run finished", "run_id", run.ID, "renamed", run.Renamed, "failed", run.Failed)
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
