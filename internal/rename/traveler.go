package rename

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/traveler-intake/constants"
	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

var travelerPattern = regexp.MustCompile(`^(` + regexp.QuoteMeta(constants.TravelerPrefix) + `)?(.*)` + extGroup(constants.TravelerExtensions))

// TravelerName is the name a traveler for job is renamed to.
func TravelerName(job, ext string) string {
	return constants.TravelerPrefix + job + ext
}

// Traveler renames original to "CT <job><ext>". Files that already carry the
// prefix are reported as processed; with StopAtFirstProcessed the scan ends
// at the first one. An existing target is never overwritten.
func (r *Renamer) Traveler(original, job string) (Plan, error) {
	var plan Plan
	if job == "" {
		return plan, fmt.Errorf("traveler: empty job number")
	}
	names, err := r.list()
	if err != nil {
		return plan, err
	}
	for _, name := range names {
		m := travelerPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if m[1] != "" {
			r.skip(&plan, name, "traveler already renamed")
			if r.opts.TravelerScan == StopAtFirstProcessed {
				break
			}
			continue
		}
		if name != m[2]+m[3] || name != original {
			continue
		}

		target := TravelerName(job, m[3])
		busy, err := r.taken(target)
		if err != nil {
			return plan, err
		}
		if busy {
			return plan, fmt.Errorf("%w: %s (renaming %s)", common.ErrTargetExists, target, name)
		}
		if err := r.move(name, target); err != nil {
			return plan, err
		}
		plan.Ops = append(plan.Ops, Op{From: name, To: target})
	}
	return plan, nil
}
