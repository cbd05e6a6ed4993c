// Package textnorm repairs the artifacts that page-text extraction leaves in
// traveler text. Every pass is pure and idempotent.
package textnorm

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/traveler-intake/internal/rules"
)

var (
	reCRLF            = regexp.MustCompile(`\r\n?`)
	reLowerUpper      = regexp.MustCompile(`([a-z])([A-Z])`)
	reUpperUpperLower = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
)

// StripBullets removes injected bullet glyphs from the whole document.
func StripBullets(s string, glyphs []string) string {
	for _, g := range glyphs {
		if g != "" {
			s = strings.ReplaceAll(s, g, "")
		}
	}
	return s
}

// JoinLines collapses line breaks and whitespace runs into single spaces.
func JoinLines(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripLineBreaks drops line breaks outright, for spans where a break is
// known to split a single token (file names, extensions).
func StripLineBreaks(s string) string {
	s = reCRLF.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\n", "")
	return strings.TrimSpace(s)
}

// SplitCamel inserts a space at lower->Upper and at Upper->Upper+lower
// transitions ("CertificationsNone" -> "Certifications None",
// "ASMEInspection" -> "ASME Inspection").
func SplitCamel(s string) string {
	for {
		next := reLowerUpper.ReplaceAllString(s, "$1 $2")
		next = reUpperUpperLower.ReplaceAllString(next, "$1 $2")
		if next == s {
			return s
		}
		s = next
	}
}

// Replace applies literal corrections in table order.
func Replace(s string, table []rules.Replacement) string {
	for _, r := range table {
		if r.From != "" {
			s = strings.ReplaceAll(s, r.From, r.To)
		}
	}
	return s
}

// Redact replaces every case-insensitive occurrence of each name.
func Redact(s string, names []string, placeholder string) string {
	for _, name := range names {
		if name == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name))
		s = re.ReplaceAllLiteralString(s, placeholder)
	}
	return s
}
