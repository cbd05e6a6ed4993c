package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Standard", cfg.StandardFinish)
	assert.Equal(t, Offsets{Standard: 2, Expedite: 7, Custom: 5, Default: 5}, cfg.Offsets)
}

func TestMatches(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Matches(Expedite, "Anodize, MASKING required"))
	assert.True(t, cfg.Matches(Expedite, "Through-Harden to 40 HRC"))
	assert.True(t, cfg.Matches(Custom, "Custom Black Oxide"))
	assert.False(t, cfg.Matches(Custom, "Bead Blast"))
	assert.False(t, cfg.Matches(Masking, ""))
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesSections(t *testing.T) {
	data := []byte(`
offsets:
  expedite: 10
keywords:
  expedite: [masking, plating]
normalize:
  supplier_names: [Xometry, Acme]
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Offsets.Expedite)
	assert.Equal(t, 2, cfg.Offsets.Standard, "unset offsets keep their defaults")
	assert.Equal(t, []string{"masking", "plating"}, cfg.Keywords[Expedite])
	assert.Equal(t, []string{"custom"}, cfg.Keywords[Custom])
	assert.Equal(t, []string{"Xometry", "Acme"}, cfg.Normalize.SupplierNames)
	assert.Equal(t, "[CUSTOMER]", cfg.Normalize.Placeholder)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown top-level key", "deadline: 3\n"},
		{"negative offset", "offsets:\n  standard: -1\n"},
		{"offset is not a number", "offsets:\n  standard: two\n"},
		{"empty keyword", "keywords:\n  custom: ['']\n"},
		{"replacement without from", "normalize:\n  kerning:\n    - to: x\n"},
		{"replacement reintroduces input", "normalize:\n  kerning:\n    - from: Anod\n      to: Anodize\n"},
		{"placeholder contains supplier", "normalize:\n  placeholder: '[XOMETRY]'\n"},
		{"empty keyword set", "keywords:\n  masking: []\n"},
		{"malformed yaml", "offsets: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("standard_finish: As Machined\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "As Machined", cfg.StandardFinish)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
