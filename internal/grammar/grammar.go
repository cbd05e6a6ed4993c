// Package grammar recovers traveler fields from extracted page text.
//
// The traveler layout has no reliable separators once text is extracted, so
// the grammar is an ordered list of steps that must match left to right from
// the start of the text. Field boundaries are found with lazy spans that stop
// at literal anchors or at case transitions.
package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/traveler-intake/constants"
)

// Step is one named sub-matcher. Pattern is a regexp fragment evaluated with
// (?s); it holds at most one named group, the field it captures.
type Step struct {
	Name    string
	Pattern string
}

// Grammar is an anchored sequence of steps.
type Grammar struct {
	steps    []Step
	full     *regexp.Regexp
	prefixes []*regexp.Regexp // prefixes[k] matches steps[:k+1]
}

// New compiles steps. It panics on an invalid fragment, like regexp.MustCompile.
func New(steps []Step) *Grammar {
	g := &Grammar{steps: steps}
	var b strings.Builder
	b.WriteString(`(?s)\A`)
	for _, s := range steps {
		b.WriteString(s.Pattern)
		g.prefixes = append(g.prefixes, regexp.MustCompile(b.String()))
	}
	g.full = g.prefixes[len(g.prefixes)-1]
	return g
}

// Steps returns the step names in order.
func (g *Grammar) Steps() []string {
	names := make([]string, len(g.steps))
	for i, s := range g.steps {
		names[i] = s.Name
	}
	return names
}

// Match runs the grammar. On failure the error names the first step that the
// text could not satisfy.
func (g *Grammar) Match(documentID, text string) (map[string]string, error) {
	m := g.full.FindStringSubmatch(text)
	if m == nil {
		return nil, g.diagnose(documentID, text)
	}
	out := make(map[string]string)
	for i, name := range g.full.SubexpNames() {
		if name != "" {
			out[name] = m[i]
		}
	}
	return out, nil
}

func (g *Grammar) diagnose(documentID, text string) error {
	offset := 0
	for k, re := range g.prefixes {
		loc := re.FindStringIndex(text)
		if loc == nil {
			return &ExtractionError{DocumentID: documentID, Step: g.steps[k].Name, Offset: offset}
		}
		offset = loc[1]
	}
	// every prefix matched but the whole did not; blame the last step
	return &ExtractionError{DocumentID: documentID, Step: g.steps[len(g.steps)-1].Name, Offset: offset}
}

// Capture group names.
const (
	FieldPONumber       = "po_number"
	FieldDueDate        = "due_date"
	FieldContact        = "contact"
	FieldJobNumber      = "job_number"
	FieldPartName       = "part_name"
	FieldPartExt        = "part_ext"
	FieldQuantity       = "quantity"
	FieldFinish         = "finish"
	FieldMaterial       = "material"
	FieldCertifications = "certifications"
	FieldInspection     = "inspection"
	FieldNotes          = "notes"
)

// TravelerSteps is the traveler layout grammar.
func TravelerSteps() []Step {
	return []Step{
		{Name: "date-contact-anchor", Pattern: `.*?DateContact`},
		{Name: "po-number", Pattern: `(?P<po_number>[a-zA-Z]\w{7})`},
		{Name: "due-date", Pattern: `(?P<due_date>\d\d/\d\d/\d{4})`},
		{Name: "contact", Pattern: `(?P<contact>.*?@.*?\.com)`},
		{Name: "quantity-anchor", Pattern: `.*?Quantity`},
		{Name: "job-number", Pattern: `(?P<job_number>0\w{6})`},
		{Name: "part-name", Pattern: `(?P<part_name>.*?)`},
		{Name: "cad-extension", Pattern: `(?P<part_ext>` + extensionAlternation(constants.CADExtensions) + `)`},
		{Name: "piece-quantity", Pattern: `.*?\n[ \t]*(?P<quantity>\d+)[ \t]*\n`},
		{Name: "specifications-anchor", Pattern: `.*?tions`},
		{Name: "finish", Pattern: `(?P<finish>.*?[a-z])`},
		{Name: "material", Pattern: `(?P<material>[A-Z0-9].*?)`},
		{Name: "certifications", Pattern: `(?P<certifications>Cert.*?)`},
		{Name: "inspection-anchor", Pattern: `Inspection.*?[a-z]`},
		{Name: "inspection", Pattern: `(?P<inspection>[A-Z].*?)`},
		{Name: "notes", Pattern: `(?P<notes>Features:.*)\z`},
	}
}

// extensionAlternation allows one stray line break anywhere inside an
// extension: ".SLD\nPRT" still counts as ".SLDPRT".
func extensionAlternation(exts []string) string {
	alts := make([]string, 0, len(exts))
	for _, ext := range exts {
		var b strings.Builder
		for i, r := range ext {
			if i > 0 {
				b.WriteString(`\n?`)
			}
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
		alts = append(alts, b.String())
	}
	return `(?:` + strings.Join(alts, `|`) + `)`
}

var traveler = New(TravelerSteps())

// Traveler matches the traveler grammar.
func Traveler(documentID, text string) (map[string]string, error) {
	return traveler.Match(documentID, text)
}

var rePOJob = regexp.MustCompile(`(?s)Qty\.\n(.*?)(\w{7})\n`)

// PurchaseOrderJob finds the job number printed below the "Qty." column
// header of a purchase order.
func PurchaseOrderJob(documentID, text string) (string, error) {
	m := rePOJob.FindStringSubmatch(text)
	if m == nil {
		return "", &ExtractionError{DocumentID: documentID, Step: "po-job-number", Cause: fmt.Errorf("no job number below Qty. header")}
	}
	return m[2], nil
}
