package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/traveler-intake/internal/rules"
)

// ProcessingContext is everything a directory pass needs that used to be
// process-wide state: the scoped directory, keyword rules, the diagnostic
// sink and the clock.
type ProcessingContext struct {
	Dir    string
	Rules  rules.Config
	Logger *slog.Logger
	Now    func() time.Time
}

// NewProcessingContext fills nil collaborators with defaults.
func NewProcessingContext(dir string, rc rules.Config, logger *slog.Logger) ProcessingContext {
	if logger == nil {
		logger = slog.Default()
	}
	return ProcessingContext{Dir: dir, Rules: rc, Logger: logger, Now: time.Now}
}

// Today returns the current calendar date at midnight UTC.
func (p ProcessingContext) Today() time.Time {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID      contextKey = "run_id"
	ContextKeyDocumentID contextKey = "document_id"
)

// WithRunID adds a directory-pass ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the directory-pass ID from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}

// WithDocumentID adds a document ID to the context
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, ContextKeyDocumentID, documentID)
}

// DocumentIDFromContext extracts the document ID from context
func DocumentIDFromContext(ctx context.Context) string {
	if documentID, ok := ctx.Value(ContextKeyDocumentID).(string); ok {
		return documentID
	}
	return ""
}
