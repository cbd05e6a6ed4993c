package pdftext

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gen2brain/go-fitz"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

// MuPDFSource reads text through MuPDF. It copes with fonts and encodings
// the native parser does not, at the cost of a cgo dependency.
type MuPDFSource struct {
	logger *slog.Logger
}

func NewMuPDFSource(logger *slog.Logger) *MuPDFSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &MuPDFSource{logger: logger}
}

func (s *MuPDFSource) Pages(ctx context.Context, path string, limit int) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, common.WrapError(err, "open pdf "+path)
	}
	defer doc.Close()

	n := doc.NumPage()
	if limit > 0 && limit < n {
		n = limit
	}
	pages := make([]string, 0, n)
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", i+1, path, err)
		}
		pages = append(pages, text)
	}
	s.logger.Debug("pdf text extracted", "backend", "mupdf", "file", path, "pages", len(pages))
	return pages, nil
}
