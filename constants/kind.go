package constants

// DocumentKind is decided once per document from its first page.
type DocumentKind string

const (
	PurchaseOrder DocumentKind = "PURCHASE_ORDER"
	Traveler      DocumentKind = "TRAVELER"
	Unrecognized  DocumentKind = "UNRECOGNIZED"
)

func (k DocumentKind) String() string { return string(k) }
