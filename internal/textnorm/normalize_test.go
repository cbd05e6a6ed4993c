package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/traveler-intake/internal/rules"
)

func TestStripBullets(t *testing.T) {
	got := StripBullets("Features:\n\uf0b7 Deburr\n\uf0b7 Break edges", []string{"\uf0b7"})
	assert.Equal(t, "Features:\n Deburr\n Break edges", got)
}

func TestJoinLines(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Anodize Type II\nClear", "Anodize Type II Clear"},
		{"  spaced   out \r\n text ", "spaced out text"},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinLines(tt.in))
	}
}

func TestStripLineBreaks(t *testing.T) {
	assert.Equal(t, "BracketRevB", StripLineBreaks("\nBracket\r\nRev\nB"))
	assert.Equal(t, ".SLDPRT", StripLineBreaks(".SLD\nPRT"))
}

func TestSplitCamel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CertificationsNone", "Certifications None"},
		{"ASMEInspection", "ASME Inspection"},
		{"Certificate of ConformanceMaterial Certs", "Certificate of Conformance Material Certs"},
		{"already spaced", "already spaced"},
		{"ABC", "ABC"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCamel(tt.in))
		})
	}
}

func TestReplace(t *testing.T) {
	table := rules.Default().Normalize.Kerning
	assert.Equal(t, "Anodize, Certificate, Diameter", Replace("Anodze, Certifcate, Diamter", table))
}

func TestRedact(t *testing.T) {
	got := Redact("Ship via XOMETRY; xometry will inspect", []string{"Xometry"}, "[CUSTOMER]")
	assert.Equal(t, "Ship via [CUSTOMER]; [CUSTOMER] will inspect", got)
}

func TestNormalizerIsIdempotent(t *testing.T) {
	n := New(rules.Default().Normalize)
	inputs := []string{
		"Features:\n Don\u2122t break the \ufb01A\ufb01 edge.\nXometry Anodze",
		"Certifcate of ConformanceMaterial Certs",
		"ASMEStandard Visual\nInspection",
		"",
	}
	passes := map[string]func(string) string{
		"line":     n.Line,
		"freetext": n.FreeText,
		"spaced":   n.Spaced,
		"notes":    n.Notes,
		"document": n.Document,
	}
	for name, pass := range passes {
		for _, in := range inputs {
			once := pass(in)
			assert.Equal(t, once, pass(once), "%s pass not idempotent for %q", name, in)
		}
	}
}

func TestNotesPass(t *testing.T) {
	n := New(rules.Default().Normalize)
	got := n.Notes("Features: Don\u2122t break the \ufb01A\ufb01 edge.\nXometry will  review.")
	assert.Equal(t, `Features: Don't break the "A" edge. [CUSTOMER] will review.`, got)
}

func TestPartFile(t *testing.T) {
	n := New(rules.Default().Normalize)
	assert.Equal(t, "Bracket Rev B.SLDPRT", n.PartFile("\nBracket Rev B", ".SLD\nPRT"))
}
