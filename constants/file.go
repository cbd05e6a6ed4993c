package constants

import "strings"

// DocumentExt is the only extension scanned for travelers and purchase orders.
// Matching is case-sensitive, so "X.PDF" is not picked up as a document.
const DocumentExt = ".pdf"

// CADExtensions are the part-file extensions recognized by the traveler grammar.
var CADExtensions = []string{".sldprt", ".SLDPRT", ".step", ".STEP", ".stp", ".STP"}

// DrawingExtensions are the extensions a drawing file may carry.
var DrawingExtensions = []string{".pdf", ".jpg", ".jpeg", ".PDF", ".JPG", ".JPEG"}

// TravelerExtensions are the extensions a traveler file may carry when renamed.
var TravelerExtensions = []string{".pdf", ".PDF"}

// TravelerPrefix marks a traveler that has already been renamed.
const TravelerPrefix = "CT "

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
