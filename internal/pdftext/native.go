package pdftext

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

// NativeSource reads text with a pure-Go PDF parser. No external tools.
type NativeSource struct {
	logger *slog.Logger
}

func NewNativeSource(logger *slog.Logger) *NativeSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &NativeSource{logger: logger}
}

func (s *NativeSource) Pages(ctx context.Context, path string, limit int) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, common.WrapError(err, "open pdf "+path)
	}
	defer f.Close()

	n := r.NumPage()
	if limit > 0 && limit < n {
		n = limit
	}
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", i, path, err)
		}
		pages = append(pages, text)
	}
	s.logger.Debug("pdf text extracted", "backend", "native", "file", path, "pages", len(pages))
	return pages, nil
}
