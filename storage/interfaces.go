package storage

import "housing-monitor/models"

// SeenStore is the interface any seen-set backend must satisfy. Load returns
// an empty set when no state has ever been persisted; corrupt state is an
// error. Save replaces the persisted set atomically.
type SeenStore interface {
	Load() (*SeenSet, error)
	Save(set *SeenSet) error
	Close() error
}

// RowSnapshotter persists an audit copy of the canonical rows from a fetch.
type RowSnapshotter interface {
	WriteRows(header []string, rows []models.Row) error
	Close() error
}
