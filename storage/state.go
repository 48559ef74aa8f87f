package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorruptState marks persisted state that exists but cannot be parsed.
// Callers must not treat this as a bootstrap condition: silently resetting
// would re-notify every listing ever seen.
var ErrCorruptState = errors.New("state file is corrupt")

// FileStore persists the seen-set as a sorted JSON array of fingerprints.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path. Intermediate
// directories are created automatically.
func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("state: create dir %q: %w", dir, err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted seen-set. A missing file is the bootstrap
// condition and yields an empty set; unparseable content is ErrCorruptState.
func (fs *FileStore) Load() (*SeenSet, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return NewSeenSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read %q: %w", fs.path, err)
	}

	var fingerprints []string
	if err := json.Unmarshal(data, &fingerprints); err != nil {
		return nil, fmt.Errorf("state: %w: %q: %v", ErrCorruptState, fs.path, err)
	}
	return NewSeenSet(fingerprints...), nil
}

// Save writes the set as sorted, indented JSON. The write goes to a temp
// file in the same directory and is renamed over the target, so a reader
// never observes a partial write.
func (fs *FileStore) Save(set *SeenSet) error {
	data, err := json.MarshalIndent(set.Sorted(), "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".seen-*.json")
	if err != nil {
		return fmt.Errorf("state: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, fs.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("state: replace %q: %w", fs.path, err)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles between calls.
func (fs *FileStore) Close() error { return nil }
