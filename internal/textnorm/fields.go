package textnorm

import "github.com/joseph-ayodele/traveler-intake/internal/rules"

// Normalizer applies the per-field pass selection.
type Normalizer struct {
	cfg rules.Normalize
}

func New(cfg rules.Normalize) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Document is the pre-grammar pass over the whole text.
func (n *Normalizer) Document(s string) string {
	return StripBullets(s, n.cfg.BulletGlyphs)
}

func (n *Normalizer) Line(s string) string {
	return JoinLines(s)
}

func (n *Normalizer) PartFile(name, ext string) string {
	return StripLineBreaks(name) + StripLineBreaks(ext)
}

// FreeText is used for finish and material.
func (n *Normalizer) FreeText(s string) string {
	return Replace(JoinLines(s), n.cfg.Kerning)
}

// Spaced is used for certifications and inspection, whose words collide.
func (n *Normalizer) Spaced(s string) string {
	return Replace(SplitCamel(JoinLines(s)), n.cfg.Kerning)
}

func (n *Normalizer) Notes(s string) string {
	s = Replace(JoinLines(s), n.cfg.Kerning)
	s = Replace(s, n.cfg.Glyphs)
	return Redact(s, n.cfg.SupplierNames, n.cfg.Placeholder)
}
