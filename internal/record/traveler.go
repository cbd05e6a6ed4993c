// Package record holds the structured traveler record and builds it from raw
// grammar captures.
package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
	"github.com/joseph-ayodele/traveler-intake/internal/grammar"
	"github.com/joseph-ayodele/traveler-intake/internal/textnorm"
)

// DueDateLayout is the only date format travelers carry.
const DueDateLayout = "01/02/2006"

// Traveler is the record extracted from one traveler document. All fields are
// required; a record is never built with one missing.
type Traveler struct {
	PONumber       string    `json:"po_number" validate:"required,ponumber"`
	DueDate        time.Time `json:"due_date" validate:"required"`
	Contact        string    `json:"contact" validate:"required"`
	JobNumber      string    `json:"job_number" validate:"required,jobnumber"`
	PartFile       string    `json:"part_file" validate:"required"`
	Quantity       int       `json:"quantity" validate:"gt=0"`
	Finish         string    `json:"finish" validate:"required"`
	Material       string    `json:"material" validate:"required"`
	Certifications string    `json:"certifications" validate:"required"`
	Inspection     string    `json:"inspection" validate:"required"`
	Notes          string    `json:"notes" validate:"required"`
}

// Build normalizes captures field by field, parses typed fields and validates
// the result. Any failure is an extraction failure for the whole document.
func Build(documentID string, caps map[string]string, n *textnorm.Normalizer) (Traveler, error) {
	fail := func(step string, cause error) (Traveler, error) {
		return Traveler{}, &grammar.ExtractionError{DocumentID: documentID, Step: step, Cause: cause}
	}

	due, err := time.Parse(DueDateLayout, strings.TrimSpace(caps[grammar.FieldDueDate]))
	if err != nil {
		return fail("due-date", err)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(caps[grammar.FieldQuantity]))
	if err != nil {
		return fail("piece-quantity", err)
	}

	rec := Traveler{
		PONumber:       strings.TrimSpace(caps[grammar.FieldPONumber]),
		DueDate:        due,
		Contact:        n.Line(caps[grammar.FieldContact]),
		JobNumber:      strings.TrimSpace(caps[grammar.FieldJobNumber]),
		PartFile:       n.PartFile(caps[grammar.FieldPartName], caps[grammar.FieldPartExt]),
		Quantity:       qty,
		Finish:         n.FreeText(caps[grammar.FieldFinish]),
		Material:       n.FreeText(caps[grammar.FieldMaterial]),
		Certifications: n.Spaced(caps[grammar.FieldCertifications]),
		Inspection:     n.Spaced(caps[grammar.FieldInspection]),
		Notes:          n.Notes(caps[grammar.FieldNotes]),
	}
	if err := common.ValidateStruct(rec); err != nil {
		return fail("validate", err)
	}
	return rec, nil
}

// Extract runs the pre-grammar pass, the grammar and Build.
func Extract(documentID, text string, n *textnorm.Normalizer) (Traveler, error) {
	caps, err := grammar.Traveler(documentID, n.Document(text))
	if err != nil {
		return Traveler{}, err
	}
	return Build(documentID, caps, n)
}

// DueDateString renders the due date in the source layout.
func (t Traveler) DueDateString() string {
	return t.DueDate.Format(DueDateLayout)
}

func (t Traveler) String() string {
	return fmt.Sprintf("traveler{job=%s po=%s due=%s part=%s qty=%d}",
		t.JobNumber, t.PONumber, t.DueDateString(), t.PartFile, t.Quantity)
}
