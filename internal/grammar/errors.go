package grammar

import (
	"fmt"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

// ExtractionError reports the first grammar step that could not be matched.
// It matches common.ErrExtractionFailed under errors.Is.
type ExtractionError struct {
	DocumentID string
	Step       string
	Offset     int // end of the longest matched step prefix
	Cause      error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extraction failed for %s at step %q (offset %d)", e.DocumentID, e.Step, e.Offset)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExtractionError) Is(target error) bool {
	return target == common.ErrExtractionFailed
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
