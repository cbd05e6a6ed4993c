// Package classify decides which intake paths a document takes from the text
// of its first page.
package classify

import (
	"strings"

	"github.com/joseph-ayodele/traveler-intake/constants"
	"github.com/joseph-ayodele/traveler-intake/internal/rules"
)

// Result carries both signature checks; a page may match both.
type Result struct {
	PurchaseOrder bool
	Traveler      bool
}

// Kinds lists the matched kinds, purchase order first, or Unrecognized.
func (r Result) Kinds() []constants.DocumentKind {
	var kinds []constants.DocumentKind
	if r.PurchaseOrder {
		kinds = append(kinds, constants.PurchaseOrder)
	}
	if r.Traveler {
		kinds = append(kinds, constants.Traveler)
	}
	if len(kinds) == 0 {
		return []constants.DocumentKind{constants.Unrecognized}
	}
	return kinds
}

func (r Result) Recognized() bool { return r.PurchaseOrder || r.Traveler }

// Classifier matches configured signatures anywhere in the page text.
type Classifier struct {
	sig rules.Signatures
}

func New(sig rules.Signatures) *Classifier {
	return &Classifier{sig: sig}
}

// Classify runs both checks independently.
func (c *Classifier) Classify(firstPage string) Result {
	return Result{
		PurchaseOrder: containsAll(firstPage, c.sig.PurchaseOrder),
		Traveler:      containsInOrder(firstPage, c.sig.Traveler),
	}
}

func containsAll(text string, literals []string) bool {
	if len(literals) == 0 {
		return false
	}
	for _, lit := range literals {
		if !strings.Contains(text, lit) {
			return false
		}
	}
	return true
}

// containsInOrder finds each literal after the end of the previous one.
func containsInOrder(text string, literals []string) bool {
	if len(literals) == 0 {
		return false
	}
	rest := text
	for _, lit := range literals {
		i := strings.Index(rest, lit)
		if i < 0 {
			return false
		}
		rest = rest[i+len(lit):]
	}
	return true
}
