package record

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
	"github.com/joseph-ayodele/traveler-intake/internal/grammar"
	"github.com/joseph-ayodele/traveler-intake/internal/rules"
	"github.com/joseph-ayodele/traveler-intake/internal/textnorm"
)

const travelerText = "Xometry Production Traveler\n" +
	"Purchase OrderDue DateContactP123456706/10/2024jane.doe@xometry.com\n" +
	"Ship To\nAcme Machining\n" +
	"Part IDPart NameQuantity0123456\nBracket Rev B.SLD\nPRT\n" +
	"25\n" +
	"Part Specifications" +
	"StandardAluminum 6061-T6" +
	"Certifcate of ConformanceMaterial Certs" +
	"InspectionRequirements" +
	"ASMEStandard Visual Inspection" +
	"Features:\n\uf0b7 Don\u2122t break edges on the \ufb01A\ufb01 datum.\n\uf0b7 Xometry will review.\nSee drawing."

func normalizer() *textnorm.Normalizer {
	return textnorm.New(rules.Default().Normalize)
}

func TestExtract(t *testing.T) {
	rec, err := Extract("job.pdf", travelerText, normalizer())
	require.NoError(t, err)

	assert.Equal(t, "P1234567", rec.PONumber)
	assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), rec.DueDate)
	assert.Equal(t, "06/10/2024", rec.DueDateString())
	assert.Equal(t, "jane.doe@xometry.com", rec.Contact)
	assert.Equal(t, "0123456", rec.JobNumber)
	assert.Equal(t, "Bracket Rev B.SLDPRT", rec.PartFile)
	assert.Equal(t, 25, rec.Quantity)
	assert.Equal(t, "Standard", rec.Finish)
	assert.Equal(t, "Aluminum 6061-T6", rec.Material)
	assert.Equal(t, "Certificate of Conformance Material Certs", rec.Certifications)
	assert.Equal(t, "ASME Standard Visual Inspection", rec.Inspection)
	assert.Equal(t, `Features: Don't break edges on the "A" datum. [CUSTOMER] will review. See drawing.`, rec.Notes)
}

func TestExtractContactWithDisplayName(t *testing.T) {
	text := strings.Replace(travelerText, "06/10/2024jane.doe@xometry.com", "06/10/2024Jane Doe jane.doe@xometry.com", 1)

	rec, err := Extract("job.pdf", text, normalizer())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe jane.doe@xometry.com", rec.Contact)
	assert.Equal(t, "0123456", rec.JobNumber)
}

func TestExtractGrammarFailure(t *testing.T) {
	_, err := Extract("job.pdf", strings.Replace(travelerText, "Quantity", "Qty", 1), normalizer())

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionFailed))
}

func validCaptures() map[string]string {
	return map[string]string{
		grammar.FieldPONumber:       "P1234567",
		grammar.FieldDueDate:        "06/10/2024",
		grammar.FieldContact:        "jane.doe@xometry.com",
		grammar.FieldJobNumber:      "0123456",
		grammar.FieldPartName:       "Bracket",
		grammar.FieldPartExt:        ".STEP",
		grammar.FieldQuantity:       "3",
		grammar.FieldFinish:         "Bead Blast",
		grammar.FieldMaterial:       "Steel 1018",
		grammar.FieldCertifications: "Certificate of Conformance",
		grammar.FieldInspection:     "Standard",
		grammar.FieldNotes:          "Features: none",
	}
}

func TestBuildRejectsBadFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		step  string
	}{
		{"zero quantity", grammar.FieldQuantity, "0", "validate"},
		{"non-numeric quantity", grammar.FieldQuantity, "x", "piece-quantity"},
		{"impossible date", grammar.FieldDueDate, "13/45/2024", "due-date"},
		{"empty contact", grammar.FieldContact, "\n", "validate"},
		{"empty finish", grammar.FieldFinish, " \n ", "validate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := validCaptures()
			caps[tt.field] = tt.value

			_, err := Build("job.pdf", caps, normalizer())
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrExtractionFailed))

			var xerr *grammar.ExtractionError
			require.True(t, errors.As(err, &xerr))
			assert.Equal(t, tt.step, xerr.Step)
		})
	}
}

func TestBuildValidationErrorIsReachable(t *testing.T) {
	caps := validCaptures()
	caps[grammar.FieldQuantity] = "0"

	_, err := Build("job.pdf", caps, normalizer())
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestString(t *testing.T) {
	rec, err := Build("job.pdf", validCaptures(), normalizer())
	require.NoError(t, err)
	assert.Equal(t, "traveler{job=0123456 po=P1234567 due=06/10/2024 part=Bracket.STEP qty=3}", rec.String())
}
