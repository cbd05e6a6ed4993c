// Package pipeline runs a directory pass: classify each document, take the
// purchase-order and traveler paths it qualifies for, then rename unlinked
// drawings.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/traveler-intake/constants"
	"github.com/joseph-ayodele/traveler-intake/internal/classify"
	"github.com/joseph-ayodele/traveler-intake/internal/common"
	"github.com/joseph-ayodele/traveler-intake/internal/duedate"
	"github.com/joseph-ayodele/traveler-intake/internal/grammar"
	"github.com/joseph-ayodele/traveler-intake/internal/pdftext"
	"github.com/joseph-ayodele/traveler-intake/internal/record"
	"github.com/joseph-ayodele/traveler-intake/internal/rename"
	"github.com/joseph-ayodele/traveler-intake/internal/rules"
	"github.com/joseph-ayodele/traveler-intake/internal/textnorm"
)

// DocumentResult is the outcome of one document.
type DocumentResult struct {
	Path       string                   `json:"path"`
	DocumentID string                   `json:"document_id"`
	Kinds      []constants.DocumentKind `json:"kinds"`
	Status     constants.DocumentStatus `json:"status"`
	JobNumber  string                   `json:"job_number,omitempty"`
	Traveler   *record.Traveler         `json:"traveler,omitempty"`
	Commitment *duedate.Commitment      `json:"commitment,omitempty"`
	Renames    []rename.Op              `json:"renames,omitempty"`
	Err        string                   `json:"error,omitempty"`
}

type DirStats struct {
	Scanned          uint32 `json:"scanned"`
	Matched          uint32 `json:"matched"`
	Travelers        uint32 `json:"travelers"`
	PurchaseOrders   uint32 `json:"purchase_orders"`
	Unrecognized     uint32 `json:"unrecognized"`
	Failed           uint32 `json:"failed"`
	Missing          uint32 `json:"missing"`
	Renamed          uint32 `json:"renamed"`
	AlreadyProcessed uint32 `json:"already_processed"`
}

// Report is everything one directory pass produced.
type Report struct {
	RunID     string           `json:"run_id"`
	Dir       string           `json:"dir"`
	DryRun    bool             `json:"dry_run"`
	Documents []DocumentResult `json:"documents"`
	Unlinked  rename.Plan      `json:"unlinked"`
	Stats     DirStats         `json:"stats"`
}

// Options are the per-pass knobs.
type Options struct {
	DryRun       bool
	MaxProbe     int
	TravelerScan rename.ScanPolicy
}

// Processor coordinates text extraction, classification, field extraction,
// the due-date rules and renaming.
type Processor struct {
	Logger  *slog.Logger
	Text    pdftext.Source
	Rules   rules.Config
	Options Options
	Journal *JournalWriter
	Now     func() time.Time
}

func NewProcessor(logger *slog.Logger, text pdftext.Source, rc rules.Config, opts Options) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Rules: rc, Options: opts, Now: time.Now}
}

// pass holds the collaborators built for one directory.
type pass struct {
	pc         common.ProcessingContext
	classifier *classify.Classifier
	normalizer *textnorm.Normalizer
	engine     *duedate.Engine
	renamer    *rename.Renamer
}

func (p *Processor) newPass(dir string) *pass {
	pc := common.NewProcessingContext(dir, p.Rules, p.Logger)
	if p.Now != nil {
		pc.Now = p.Now
	}
	return &pass{
		pc:         pc,
		classifier: classify.New(pc.Rules.Signatures),
		normalizer: textnorm.New(pc.Rules.Normalize),
		engine:     duedate.NewEngine(pc.Rules, pc.Today, pc.Logger),
		renamer: rename.New(dir, rename.Options{
			DryRun:       p.Options.DryRun,
			MaxProbe:     p.Options.MaxProbe,
			TravelerScan: p.Options.TravelerScan,
			Logger:       pc.Logger,
		}),
	}
}

// ProcessDirectory runs one pass over dir. Document failures are recorded in
// the report and do not stop the pass; a fatal error (no free name, bad
// input) or context cancellation does, and is returned with the partial report.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (*Report, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: directory is required", common.ErrInvalidInput)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrInvalidInput, dir)
	}

	report := &Report{RunID: uuid.NewString(), Dir: dir, DryRun: p.Options.DryRun}
	ctx = common.WithRunID(ctx, report.RunID)
	logger := p.Logger.With("run_id", report.RunID)
	logger.Info("processor.pass.start", "dir", dir, "dry_run", p.Options.DryRun)
	p.Journal.start(ctx, report)

	ps := p.newPass(dir)
	runErr := p.run(ctx, ps, report)

	if runErr != nil {
		logger.Error("processor.pass.failed", "dir", dir, "err", runErr)
	} else {
		logger.Info("processor.pass.ok",
			"dir", dir,
			"scanned", report.Stats.Scanned,
			"matched", report.Stats.Matched,
			"failed", report.Stats.Failed,
			"renamed", report.Stats.Renamed,
		)
	}
	p.Journal.finish(ctx, report, runErr)
	return report, runErr
}

func (p *Processor) run(ctx context.Context, ps *pass, report *Report) error {
	names, err := listDocuments(ps.pc.Dir)
	if err != nil {
		return err
	}

	for _, name := range names {
		// cancellation is honoured between documents, never mid-rename
		if err := ctx.Err(); err != nil {
			return err
		}
		// renamed by an earlier document of this pass
		if ps.renamer.Moved(name) {
			ps.pc.Logger.Debug("processor.document.renamed_this_pass", "file", name)
			continue
		}
		report.Stats.Scanned++

		res, err := p.processDocument(ctx, ps, name)
		report.Documents = append(report.Documents, res)
		p.count(&report.Stats, res)
		p.Journal.document(ctx, res)
		if err != nil {
			return err
		}
	}

	unlinked, err := ps.renamer.UnlinkedDrawings()
	report.Unlinked = unlinked
	report.Stats.Renamed += uint32(len(unlinked.Ops))
	p.Journal.renames(ctx, unlinked.Ops)
	return err
}

func (p *Processor) count(stats *DirStats, res DocumentResult) {
	for _, k := range res.Kinds {
		switch k {
		case constants.Traveler:
			stats.Travelers++
		case constants.PurchaseOrder:
			stats.PurchaseOrders++
		}
	}
	switch res.Status {
	case constants.StatusUnrecognized:
		stats.Unrecognized++
	case constants.StatusFailed:
		stats.Matched++
		stats.Failed++
	case constants.StatusMissing:
		stats.Missing++
	case constants.StatusAlreadyProcessed:
		stats.Matched++
		stats.AlreadyProcessed++
	case constants.StatusProcessed:
		stats.Matched++
	}
	stats.Renamed += uint32(len(res.Renames))
}

// processDocument returns a non-nil error only when the whole pass must stop.
func (p *Processor) processDocument(ctx context.Context, ps *pass, name string) (DocumentResult, error) {
	res := DocumentResult{Path: name, DocumentID: uuid.NewString()}
	ctx = common.WithDocumentID(ctx, res.DocumentID)
	logger := ps.pc.Logger.With("file", name, "document_id", res.DocumentID)
	path := filepath.Join(ps.pc.Dir, name)

	fail := func(err error) (DocumentResult, error) {
		res.Err = err.Error()
		res.Status = constants.StatusFailed
		if errors.Is(err, common.ErrMissingFile) || errors.Is(err, fs.ErrNotExist) {
			res.Status = constants.StatusMissing
		}
		logger.Warn("processor.document.failed", "status", res.Status, "err", err)
		if common.IsFatal(err) {
			return res, err
		}
		return res, nil
	}

	// an earlier document in this pass may have renamed this file away
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", common.ErrMissingFile, name)
		}
		return fail(err)
	}

	firstPage, err := pdftext.FirstPage(ctx, p.Text, path)
	if err != nil {
		return fail(err)
	}
	kind := ps.classifier.Classify(firstPage)
	res.Kinds = kind.Kinds()
	if !kind.Recognized() {
		res.Status = constants.StatusUnrecognized
		logger.Debug("processor.document.unrecognized")
		return res, nil
	}

	text, err := pdftext.Document(ctx, p.Text, path)
	if err != nil {
		return fail(err)
	}

	var plan rename.Plan
	if kind.PurchaseOrder {
		job, err := grammar.PurchaseOrderJob(res.DocumentID, text)
		if err != nil {
			return fail(err)
		}
		res.JobNumber = job
		logger.Info("processor.po.ok", "job_number", job)

		drawings, err := ps.renamer.Drawings(job)
		plan.Merge(drawings)
		res.Renames = plan.Ops
		if err != nil {
			return fail(err)
		}
	}

	if kind.Traveler {
		rec, err := record.Extract(res.DocumentID, text, ps.normalizer)
		if err != nil {
			var xerr *grammar.ExtractionError
			if errors.As(err, &xerr) {
				logger.Warn("processor.traveler.extract_failed", "step", xerr.Step, "offset", xerr.Offset)
			}
			return fail(err)
		}
		commitment := ps.engine.Compute(rec)
		res.Traveler = &rec
		res.Commitment = &commitment
		res.JobNumber = rec.JobNumber
		logger.Info("processor.traveler.ok",
			"job_number", rec.JobNumber,
			"po_number", rec.PONumber,
			"due_date", rec.DueDateString(),
			"commitment", commitment.String(),
			"rule", commitment.Rule,
		)

		drawings, err := ps.renamer.Drawings(rec.JobNumber)
		plan.Merge(drawings)
		res.Renames = plan.Ops
		if err != nil {
			return fail(err)
		}
		trav, err := ps.renamer.Traveler(name, rec.JobNumber)
		plan.Merge(trav)
		res.Renames = plan.Ops
		if err != nil {
			return fail(err)
		}
	}

	res.Status = constants.StatusProcessed
	if len(plan.Ops) == 0 && len(plan.AlreadyProcessed) > 0 {
		res.Status = constants.StatusAlreadyProcessed
		logger.Debug("processor.document.already_processed", "skipped", len(plan.AlreadyProcessed))
	}
	return res, nil
}

// Inspect classifies and extracts a single document without renaming anything.
func (p *Processor) Inspect(ctx context.Context, path string) (DocumentResult, error) {
	ps := p.newPass(filepath.Dir(path))
	res := DocumentResult{Path: filepath.Base(path), DocumentID: uuid.NewString()}

	firstPage, err := pdftext.FirstPage(ctx, p.Text, path)
	if err != nil {
		return res, err
	}
	kind := ps.classifier.Classify(firstPage)
	res.Kinds = kind.Kinds()
	if !kind.Recognized() {
		res.Status = constants.StatusUnrecognized
		return res, common.ErrUnrecognizedDocument
	}

	text, err := pdftext.Document(ctx, p.Text, path)
	if err != nil {
		return res, err
	}
	if kind.PurchaseOrder {
		job, err := grammar.PurchaseOrderJob(res.DocumentID, text)
		if err != nil {
			res.Status, res.Err = constants.StatusFailed, err.Error()
			return res, err
		}
		res.JobNumber = job
	}
	if kind.Traveler {
		rec, err := record.Extract(res.DocumentID, text, ps.normalizer)
		if err != nil {
			res.Status, res.Err = constants.StatusFailed, err.Error()
			return res, err
		}
		commitment := ps.engine.Compute(rec)
		res.Traveler, res.Commitment, res.JobNumber = &rec, &commitment, rec.JobNumber
	}
	res.Status = constants.StatusProcessed
	return res, nil
}

// listDocuments returns the regular files with the document extension, sorted.
// The extension match is case-sensitive.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if filepath.Ext(e.Name()) == constants.DocumentExt {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
