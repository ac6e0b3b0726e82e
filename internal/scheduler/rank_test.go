package scheduler

import (
	"reflect"
	"testing"
)

func cluster(kind Kind, resource, label string, day Day, start, end, size int) ConflictCluster {
	entries := make([]ScheduleEntry, size)
	for i := range entries {
		entries[i] = ScheduleEntry{MeetingID: resource + "-" + string(rune('a'+i)), Day: day, StartMinute: start, EndMinute: end}
	}
	return ConflictCluster{
		Kind:          kind,
		ResourceID:    resource,
		ResourceLabel: label,
		Day:           day,
		WindowStart:   start,
		WindowEnd:     end,
		Entries:       entries,
	}
}

func resourceOrder(clusters []ConflictCluster) []string {
	out := make([]string, len(clusters))
	for i, c := range clusters {
		out[i] = string(c.Kind) + ":" + c.ResourceID
	}
	return out
}

func TestRank(t *testing.T) {
	t.Parallel()

	t.Run("orders by size, day, window start, then label", func(t *testing.T) {
		t.Parallel()

		input := []ConflictCluster{
			cluster(KindRoom, "r-label-b", "B", Monday, 540, 600, 2),
			cluster(KindRoom, "r-tuesday", "A", Tuesday, 480, 600, 2),
			cluster(KindRoom, "r-big", "Z", Friday, 900, 960, 3),
			cluster(KindRoom, "r-label-a", "A", Monday, 540, 600, 2),
			cluster(KindRoom, "r-early", "Z", Monday, 480, 600, 2),
			cluster(KindRoom, "r-unknown", "A", Unknown, 0, 60, 2),
		}

		got := resourceOrder(Rank(input))
		want := []string{
			"room:r-big",
			"room:r-early",
			"room:r-label-a",
			"room:r-label-b",
			"room:r-tuesday",
			"room:r-unknown",
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected order:\n got %v\nwant %v", got, want)
		}
	})

	t.Run("breaks label ties across kinds deterministically", func(t *testing.T) {
		t.Parallel()

		input := []ConflictCluster{
			cluster(KindSection, "X", "Shared", Monday, 540, 600, 2),
			cluster(KindRoom, "X", "Shared", Monday, 540, 600, 2),
			cluster(KindFaculty, "X", "Shared", Monday, 540, 600, 2),
		}

		got := resourceOrder(Rank(input))
		want := []string{"faculty:X", "room:X", "section:X"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected order: %v", got)
		}
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		t.Parallel()

		input := []ConflictCluster{
			cluster(KindRoom, "small", "A", Monday, 0, 60, 2),
			cluster(KindRoom, "large", "B", Monday, 0, 60, 4),
		}
		_ = Rank(input)
		if input[0].ResourceID != "small" {
			t.Fatalf("Rank reordered the caller's slice")
		}
	})

	t.Run("is stable under permutation", func(t *testing.T) {
		t.Parallel()

		input := []ConflictCluster{
			cluster(KindFaculty, "f1", "Dr. A", Wednesday, 600, 660, 2),
			cluster(KindRoom, "r1", "Dr. A", Wednesday, 600, 660, 2),
			cluster(KindSection, "s1", "1A", Monday, 600, 700, 3),
			cluster(KindRoom, "r2", "Hall", Wednesday, 600, 630, 2),
		}
		permuted := []ConflictCluster{input[3], input[1], input[0], input[2]}

		if !reflect.DeepEqual(Rank(input), Rank(permuted)) {
			t.Fatalf("rank order depends on input order")
		}
	})

	t.Run("returns nil for no clusters", func(t *testing.T) {
		t.Parallel()

		if got := Rank(nil); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})
}
