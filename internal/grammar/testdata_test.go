package grammar

// travelerFixture mimics text extracted from a two-page traveler: field
// labels and values run together and the part extension is split by a
// stray line break.
const travelerFixture = "Xometry Production Traveler\n" +
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
