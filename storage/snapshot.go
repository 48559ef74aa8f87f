package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"housing-monitor/models"
)

// SnapshotWriter dumps the canonical rows of a fetch to a CSV file so a
// misclassified listing can be audited against what the pipeline actually
// saw. It is safe for concurrent use.
type SnapshotWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewSnapshotWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewSnapshotWriter(path string) (*SnapshotWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: create file %q: %w", path, err)
	}

	return &SnapshotWriter{file: f, writer: csv.NewWriter(f)}, nil
}

// WriteRows writes the header followed by every row, in header column order.
func (s *SnapshotWriter) WriteRows(header []string, rows []models.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Write(header); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(header))
		for i, field := range header {
			record[i] = row.Get(field)
		}
		if err := s.writer.Write(record); err != nil {
			return fmt.Errorf("snapshot: write row: %w", err)
		}
	}

	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the underlying file.
func (s *SnapshotWriter) Close() error {
	s.writer.Flush()
	return s.file.Close()
}
