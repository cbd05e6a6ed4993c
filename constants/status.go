package constants

// DocumentStatus is the outcome of one document in a directory pass.
type DocumentStatus string

// Stable values (stored verbatim in the journal).
const (
	StatusProcessed    DocumentStatus = "PROCESSED"    // at least one path ran to completion
	StatusUnrecognized DocumentStatus = "UNRECOGNIZED" // neither signature matched
	StatusFailed       DocumentStatus = "FAILED"       // extraction or text read failed
	StatusMissing      DocumentStatus = "MISSING"      // vanished during the pass

	StatusAlreadyProcessed DocumentStatus = "ALREADY_PROCESSED" // nothing left to rename
)
