package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"housing-monitor/models"
)

// fingerprintFields is the identity key: two rows that agree on exactly these
// fields collapse to one listing. Edits to any other field (description,
// dates) do not count as a new listing.
var fingerprintFields = []string{
	models.FieldName,
	models.FieldContact,
	models.FieldRent,
	models.FieldBedrooms,
}

// Fingerprint derives the stable identity of a row: the key fields joined
// with "|" (not expected in sheet data), SHA-256 hashed, truncated to 16 hex
// characters.
func Fingerprint(row models.Row) string {
	parts := make([]string, 0, len(fingerprintFields))
	for _, f := range fingerprintFields {
		parts = append(parts, row.Get(f))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

// SeenSet is a thread-safe set of listing fingerprints.
type SeenSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewSeenSet creates a SeenSet holding the given fingerprints.
func NewSeenSet(fingerprints ...string) *SeenSet {
	s := &SeenSet{seen: make(map[string]struct{}, len(fingerprints))}
	for _, fp := range fingerprints {
		s.seen[fp] = struct{}{}
	}
	return s
}

// Add returns true if the fingerprint was newly added, false if already present.
func (s *SeenSet) Add(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[fp]; exists {
		return false
	}
	s.seen[fp] = struct{}{}
	return true
}

// Contains returns true if the fingerprint has been seen.
func (s *SeenSet) Contains(fp string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[fp]
	return exists
}

// Size returns the number of unique fingerprints tracked.
func (s *SeenSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// Union returns a new set holding every fingerprint in s or other.
func (s *SeenSet) Union(other *SeenSet) *SeenSet {
	out := NewSeenSet(s.Sorted()...)
	for _, fp := range other.Sorted() {
		out.Add(fp)
	}
	return out
}

// Diff returns the fingerprints present in s but not in other.
func (s *SeenSet) Diff(other *SeenSet) *SeenSet {
	out := NewSeenSet()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for fp := range s.seen {
		if !other.Contains(fp) {
			out.Add(fp)
		}
	}
	return out
}

// Sorted returns all fingerprints in lexicographic order, for stable
// serialization.
func (s *SeenSet) Sorted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.seen))
	for fp := range s.seen {
		out = append(out, fp)
	}
	sort.Strings(out)
	return out
}
