package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/traveler-intake/constants"
	"github.com/joseph-ayodele/traveler-intake/internal/duedate"
	"github.com/joseph-ayodele/traveler-intake/internal/pipeline"
	"github.com/joseph-ayodele/traveler-intake/internal/record"
	"github.com/joseph-ayodele/traveler-intake/internal/rename"
)

func resetFlags(t *testing.T) {
	t.Helper()
	flagRules, flagBackend, flagJournal, flagExport, flagTravelerScan = "", "", "", "", ""
	flagMaxProbe, flagDryRun, flagJSON = 0, false, false
	t.Cleanup(func() {
		flagRules, flagBackend, flagJournal, flagExport, flagTravelerScan = "", "", "", "", ""
		flagMaxProbe, flagDryRun, flagJSON = 0, false, false
	})
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	resetFlags(t)
	t.Setenv("INTAKE_TEXT_BACKEND", "mupdf")
	t.Setenv("INTAKE_MAX_PROBE", "50")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mupdf", cfg.Text.Backend)
	assert.Equal(t, 50, cfg.Rename.MaxProbe)

	flagBackend = "pdftotext"
	flagMaxProbe = 7
	flagTravelerScan = "stop"
	flagExport = "out.xlsx"
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "pdftotext", cfg.Text.Backend)
	assert.Equal(t, 7, cfg.Rename.MaxProbe)
	assert.Equal(t, "stop", cfg.Rename.TravelerScan)
	assert.Equal(t, "out.xlsx", cfg.Export.Path)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	resetFlags(t)
	flagTravelerScan = "sometimes"
	_, err := loadConfig()
	assert.Error(t, err)

	flagTravelerScan = ""
	flagBackend = "tesseract"
	_, err = loadConfig()
	assert.Error(t, err)
}

func sampleReport() *pipeline.Report {
	rec := record.Traveler{JobNumber: "0123456", PartFile: "Bracket Rev B.SLDPRT"}
	commit := duedate.Commitment{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Rule: duedate.RuleStandard}
	return &pipeline.Report{
		RunID: "run-1",
		Dir:   "/jobs",
		Documents: []pipeline.DocumentResult{
			{
				Path:       "Traveler_Q-1234.pdf",
				Status:     constants.StatusProcessed,
				JobNumber:  "0123456",
				Traveler:   &rec,
				Commitment: &commit,
				Renames: []rename.Op{
					{From: "0123456_r_drawing_d_abcr_A.pdf", To: "0123456_r_drawing_d_r_A (1).pdf"},
					{From: "Traveler_Q-1234.pdf", To: "CT 0123456.pdf"},
				},
			},
			{Path: "PO.pdf", Status: constants.StatusProcessed, JobNumber: "J1"},
			{Path: "junk.pdf", Status: constants.StatusUnrecognized},
		},
		Stats: pipeline.DirStats{Scanned: 3, Matched: 2, Travelers: 1, PurchaseOrders: 1, Unrecognized: 1, Renamed: 2},
	}
}

func TestExportRowsUsesRenamedTraveler(t *testing.T) {
	rows := exportRows(sampleReport())
	require.Len(t, rows, 1)
	assert.Equal(t, "CT 0123456.pdf", rows[0].File)
	assert.Equal(t, "0123456", rows[0].Traveler.JobNumber)
	assert.Equal(t, duedate.RuleStandard, rows[0].Commitment.Rule)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(), false))
	out := buf.String()
	assert.Contains(t, out, "Traveler_Q-1234.pdf -> CT 0123456.pdf")
	assert.Contains(t, out, "job=0123456")
	assert.Contains(t, out, "renamed=2")

	buf.Reset()
	require.NoError(t, printReport(&buf, sampleReport(), true))
	var decoded pipeline.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Len(t, decoded.Documents, 3)
}
