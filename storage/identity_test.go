package storage

import (
	"testing"

	"housing-monitor/models"
)

func baseRow() models.Row {
	return models.Row{
		models.FieldName:     "Jane",
		models.FieldContact:  "jane@x.com",
		models.FieldRent:     "$2000",
		models.FieldBedrooms: "2 bedroom",
		models.FieldDesc:     "Sunny place near campus",
	}
}

func TestFingerprintIgnoresNonKeyFields(t *testing.T) {
	a := baseRow()
	b := baseRow()
	b[models.FieldDesc] = "Totally different description"
	b[models.FieldDates] = "June-August"

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("rows differing only in non-key fields should share a fingerprint")
	}
}

func TestFingerprintChangesWithKeyFields(t *testing.T) {
	a := baseRow()
	for _, field := range []string{
		models.FieldName, models.FieldContact, models.FieldRent, models.FieldBedrooms,
	} {
		b := baseRow()
		b[field] = b[field] + " edited"
		if Fingerprint(a) == Fingerprint(b) {
			t.Errorf("changing %q should change the fingerprint", field)
		}
	}
}

func TestFingerprintLength(t *testing.T) {
	fp := Fingerprint(baseRow())
	if len(fp) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(fp))
	}
}

func TestSeenSetDiff(t *testing.T) {
	current := NewSeenSet("a", "b", "c")
	previous := NewSeenSet("b")

	fresh := current.Diff(previous)
	if fresh.Size() != 2 || !fresh.Contains("a") || !fresh.Contains("c") {
		t.Errorf("diff = %v, want [a c]", fresh.Sorted())
	}

	// Diffing against the union of both runs must yield nothing.
	merged := previous.Union(current)
	if again := current.Diff(merged); again.Size() != 0 {
		t.Errorf("second-run diff = %v, want empty", again.Sorted())
	}
}

func TestSeenSetUnionGrowsMonotonically(t *testing.T) {
	a := NewSeenSet("x", "y")
	b := NewSeenSet("y", "z")

	merged := a.Union(b)
	if merged.Size() != 3 {
		t.Errorf("union size = %d, want 3", merged.Size())
	}
	for _, fp := range []string{"x", "y", "z"} {
		if !merged.Contains(fp) {
			t.Errorf("union missing %q", fp)
		}
	}
	if a.Size() != 2 || b.Size() != 2 {
		t.Error("union must not mutate its operands")
	}
}

func TestSeenSetSortedIsStable(t *testing.T) {
	s := NewSeenSet("c", "a", "b")
	got := s.Sorted()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", got, want)
		}
	}
}
