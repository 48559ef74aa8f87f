package models

// Well-known field names after header repair. The sheet is edited by hand, so
// only the positions and names below are relied upon; everything else is
// carried through verbatim.
const (
	FieldName     = "Name"
	FieldCity     = "City"
	FieldBedrooms = "Bedrooms in Apt"
	FieldRooms    = "Rooms available"
	FieldRent     = "Rent"
	FieldDates    = "Dates Available"
	FieldContact  = "Contact"
	FieldDesc     = "Description"
	FieldStatus   = "Status"
)

// Sheet holds the raw tabular payload exactly as fetched: one header row and
// zero or more positionally-aligned data rows. No semantic typing yet.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// Row is a canonical listing row: field name → trimmed text value. Every
// declared header has an entry, defaulting to empty text.
type Row map[string]string

// Get returns the value for field, or empty text if the field is absent.
func (r Row) Get(field string) string {
	return r[field]
}

// Classified pairs a canonical row with the derived, pipeline-internal
// annotations: the parsed monthly rent (nil when unparseable) and, for
// excluded rows, a human-readable summary of why it was excluded. These are
// never persisted.
type Classified struct {
	Row           Row
	Rent          *float64
	ExcludeReason string
}
