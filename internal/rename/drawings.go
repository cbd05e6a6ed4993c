package rename

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/traveler-intake/constants"
)

const drawingMarker = "_r_drawing_d_"

func extGroup(exts []string) string {
	quoted := make([]string, len(exts))
	for i, e := range exts {
		quoted[i] = regexp.QuoteMeta(e)
	}
	return `(` + strings.Join(quoted, `|`) + `)`
}

// drawingPattern groups: prefix, opaque token, suffix code, extension.
func drawingPattern(job string) *regexp.Regexp {
	return regexp.MustCompile(`(` + regexp.QuoteMeta(job+drawingMarker) + `)(.*)(r_\w).*` + extGroup(constants.DrawingExtensions))
}

// unlinkedPattern groups: part id, marker, opaque token, suffix code, extension.
var unlinkedPattern = regexp.MustCompile(`(.*)(` + regexp.QuoteMeta(drawingMarker) + `)(.*)(r_\w).*` + extGroup(constants.DrawingExtensions))

// Drawings renames every drawing of job to "<prefix><suffix> (<n>)<ext>",
// dropping the opaque token. Drawings whose token is already empty are
// reported as already processed.
func (r *Renamer) Drawings(job string) (Plan, error) {
	if job == "" {
		return Plan{}, fmt.Errorf("drawings: empty job number")
	}
	re := drawingPattern(job)
	return r.renameDrawings(re, func(m []string) (stem, token, ext string) {
		return m[1] + m[3], m[2], m[4]
	})
}

// UnlinkedDrawings renames drawings whose job number was never extracted. The
// leading part identifier is kept. Run it after all per-job renaming.
func (r *Renamer) UnlinkedDrawings() (Plan, error) {
	return r.renameDrawings(unlinkedPattern, func(m []string) (stem, token, ext string) {
		return m[1] + m[2] + m[4], m[3], m[5]
	})
}

func (r *Renamer) renameDrawings(re *regexp.Regexp, parts func([]string) (stem, token, ext string)) (Plan, error) {
	var plan Plan
	names, err := r.list()
	if err != nil {
		return plan, err
	}
	for _, name := range names {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		stem, token, ext := parts(m)
		if token == "" {
			r.skip(&plan, name, "drawing already renamed")
			continue
		}
		target, err := r.freeName(func(n int) string {
			return fmt.Sprintf("%s (%d)%s", stem, n, ext)
		})
		if err != nil {
			return plan, err
		}
		if err := r.move(name, target); err != nil {
			return plan, err
		}
		plan.Ops = append(plan.Ops, Op{From: name, To: target})
	}
	return plan, nil
}
