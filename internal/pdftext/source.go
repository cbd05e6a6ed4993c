// Package pdftext acquires page-ordered plain text from PDF documents.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

// Source extracts page texts in page order. limit > 0 stops after that many
// pages; limit <= 0 reads the whole document.
type Source interface {
	Pages(ctx context.Context, path string, limit int) ([]string, error)
}

// FirstPage returns the text of page 1, which is all classification needs.
func FirstPage(ctx context.Context, src Source, path string) (string, error) {
	pages, err := src.Pages(ctx, path, 1)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", nil
	}
	return pages[0], nil
}

// Document returns all page texts joined by newlines.
func Document(ctx context.Context, src Source, path string) (string, error) {
	pages, err := src.Pages(ctx, path, 0)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n"), nil
}

// New returns the source selected by cfg.Backend.
func New(cfg common.TextConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Backend {
	case "", common.BackendNative:
		return NewNativeSource(logger), nil
	case common.BackendMuPDF:
		return NewMuPDFSource(logger), nil
	case common.BackendPdftotext:
		return NewPopplerSource(cfg.Pdftotext, nil, logger), nil
	default:
		return nil, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown text backend %q", cfg.Backend), common.ErrInvalidInput)
	}
}
