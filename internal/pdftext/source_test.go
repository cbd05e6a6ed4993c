package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

type fakeRunner struct {
	stdout string
	stderr string
	err    error

	name string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name = name
	f.args = args
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func TestExecRunnerLogsContextIDs(t *testing.T) {
	var buf bytes.Buffer
	r := execRunner{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	ctx := common.WithDocumentID(common.WithRunID(context.Background(), "run-1"), "doc-7")
	_, _, err := r.Run(ctx, filepath.Join(t.TempDir(), "no-such-pdftotext"))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"exec failed"`)
	assert.Contains(t, out, `"run_id":"run-1"`)
	assert.Contains(t, out, `"document_id":"doc-7"`)
}

func TestPopplerSourceSplitsPages(t *testing.T) {
	runner := &fakeRunner{stdout: "page one\nPurchase Order\fpage two\f"}
	src := NewPopplerSource("", runner, nil)

	pages, err := src.Pages(context.Background(), "/tmp/t.pdf", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"page one\nPurchase Order", "page two"}, pages)
	assert.Equal(t, "pdftotext", runner.name)
	assert.Equal(t, []string{"-raw", "-enc", "UTF-8", "-eol", "unix", "/tmp/t.pdf", "-"}, runner.args)
}

func TestPopplerSourceLimit(t *testing.T) {
	runner := &fakeRunner{stdout: "first\f"}
	src := NewPopplerSource("/usr/bin/pdftotext", runner, nil)

	text, err := FirstPage(context.Background(), src, "t.pdf")
	require.NoError(t, err)

	assert.Equal(t, "first", text)
	assert.Equal(t, "/usr/bin/pdftotext", runner.name)
	assert.Contains(t, strings.Join(runner.args, " "), "-f 1 -l 1")
}

func TestPopplerSourceError(t *testing.T) {
	runner := &fakeRunner{stderr: "Syntax Error: Couldn't read xref table", err: errors.New("exit status 1")}

	_, err := NewPopplerSource("", runner, nil).Pages(context.Background(), "bad.pdf", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xref")
}

func TestNew(t *testing.T) {
	src, err := New(common.TextConfig{Backend: common.BackendNative}, nil)
	require.NoError(t, err)
	assert.IsType(t, &NativeSource{}, src)

	src, err = New(common.TextConfig{Backend: common.BackendMuPDF}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MuPDFSource{}, src)

	src, err = New(common.TextConfig{Backend: common.BackendPdftotext, Pdftotext: "pdftotext"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PopplerSource{}, src)

	_, err = New(common.TextConfig{Backend: "ocr"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

// buildPDF writes a minimal PDF with one Helvetica text line per page.
func buildPDF(pages ...string) []byte {
	var objs []string
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		objs = append(objs, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func TestNativeSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traveler.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF("Purchase Order Due", "Features: none"), 0o644))
	src := NewNativeSource(nil)

	pages, err := src.Pages(context.Background(), path, 0)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "Purchase Order Due")
	assert.Contains(t, pages[1], "Features: none")

	first, err := FirstPage(context.Background(), src, path)
	require.NoError(t, err)
	assert.Contains(t, first, "Purchase Order Due")
	assert.NotContains(t, first, "Features")

	doc, err := Document(context.Background(), src, path)
	require.NoError(t, err)
	assert.Contains(t, doc, "Features: none")
}

func TestNativeSourceMissingFile(t *testing.T) {
	_, err := NewNativeSource(nil).Pages(context.Background(), filepath.Join(t.TempDir(), "none.pdf"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open pdf ")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
