// Package rules holds the data-driven part of the intake: keyword sets and
// day offsets for the due-date engine, text-repair tables for the normalizer,
// and the classifier signatures.
package rules

import (
	"fmt"
	"strings"
)

// Effect names a keyword set.
type Effect string

const (
	Expedite Effect = "expedite"
	Masking  Effect = "masking"
	Custom   Effect = "custom"
)

// Config is the full rules document.
type Config struct {
	StandardFinish string              `yaml:"standard_finish"`
	Offsets        Offsets             `yaml:"offsets"`
	Keywords       map[Effect][]string `yaml:"keywords"`
	Normalize      Normalize           `yaml:"normalize"`
	Signatures     Signatures          `yaml:"signatures"`
}

// Offsets are calendar days subtracted from the due date.
type Offsets struct {
	Standard int `yaml:"standard"`
	Expedite int `yaml:"expedite"`
	Custom   int `yaml:"custom"`
	Default  int `yaml:"default"`
}

// Replacement is a literal substring correction.
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Normalize configures the text repair passes.
type Normalize struct {
	BulletGlyphs  []string      `yaml:"bullet_glyphs"`
	Kerning       []Replacement `yaml:"kerning"`
	Glyphs        []Replacement `yaml:"glyphs"`
	SupplierNames []string      `yaml:"supplier_names"`
	Placeholder   string        `yaml:"placeholder"`
}

// Signatures configures document classification.
type Signatures struct {
	// PurchaseOrder literals must all be present, in any order.
	PurchaseOrder []string `yaml:"purchase_order"`
	// Traveler literals must appear in this order, gaps allowed.
	Traveler []string `yaml:"traveler"`
}

// Default returns the built-in rules.
func Default() Config {
	return Config{
		StandardFinish: "Standard",
		Offsets: Offsets{
			Standard: 2,
			Expedite: 7,
			Custom:   5,
			Default:  5,
		},
		Keywords: map[Effect][]string{
			Expedite: {"masking", "heat-treat", "heat-treating", "harden", "through-harden"},
			Masking:  {"masking"},
			Custom:   {"custom"},
		},
		Normalize: Normalize{
			BulletGlyphs: []string{"\uf0b7"},
			Kerning: []Replacement{
				{From: "Anodze", To: "Anodize"},
				{From: "Certifcate", To: "Certificate"},
				{From: "Diamter", To: "Diameter"},
			},
			Glyphs: []Replacement{
				{From: "\u2122", To: "'"},
				{From: "\ufb01", To: `"`},
			},
			SupplierNames: []string{"Xometry"},
			Placeholder:   "[CUSTOMER]",
		},
		Signatures: Signatures{
			PurchaseOrder: []string{"PURCHASE ORDER", "7951"},
			Traveler:      []string{"Purchase Order", "Due"},
		},
	}
}

// Matches reports whether text contains any keyword of the effect, ignoring case.
func (c Config) Matches(effect Effect, text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range c.Keywords[effect] {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Validate rejects configurations that would make a repair pass
// non-idempotent or leave the engine without keyword sets.
func (c Config) Validate() error {
	if strings.TrimSpace(c.StandardFinish) == "" {
		return fmt.Errorf("standard_finish is required")
	}
	for _, e := range []Effect{Expedite, Masking, Custom} {
		if len(c.Keywords[e]) == 0 {
			return fmt.Errorf("keywords.%s must not be empty", e)
		}
	}
	for _, r := range append(append([]Replacement{}, c.Normalize.Kerning...), c.Normalize.Glyphs...) {
		if r.From == "" {
			return fmt.Errorf("replacement with empty 'from'")
		}
		if strings.Contains(r.To, r.From) {
			return fmt.Errorf("replacement %q -> %q reintroduces its own input", r.From, r.To)
		}
	}
	placeholder := strings.ToLower(c.Normalize.Placeholder)
	for _, name := range c.Normalize.SupplierNames {
		if name == "" {
			return fmt.Errorf("supplier_names must not contain empty names")
		}
		if strings.Contains(placeholder, strings.ToLower(name)) {
			return fmt.Errorf("placeholder %q contains supplier name %q", c.Normalize.Placeholder, name)
		}
	}
	if len(c.Signatures.PurchaseOrder) == 0 || len(c.Signatures.Traveler) == 0 {
		return fmt.Errorf("both signatures are required")
	}
	return nil
}
