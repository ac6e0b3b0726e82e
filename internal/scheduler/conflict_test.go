package scheduler

import (
	"reflect"
	"testing"
)

type entryOption func(*ScheduleEntry)

func withFaculty(id string) entryOption {
	return func(e *ScheduleEntry) { e.FacultyUserID = strPtr(id) }
}

func withRoom(id string) entryOption {
	return func(e *ScheduleEntry) { e.RoomID = strPtr(id) }
}

func withSection(id string) entryOption {
	return func(e *ScheduleEntry) { e.SectionID = strPtr(id) }
}

func newEntry(t *testing.T, id string, day Day, start, end string, opts ...entryOption) ScheduleEntry {
	t.Helper()
	s, err := ParseTime(start)
	if err != nil {
		t.Fatalf("bad fixture start %q: %v", start, err)
	}
	e, err := ParseTime(end)
	if err != nil {
		t.Fatalf("bad fixture end %q: %v", end, err)
	}
	entry := ScheduleEntry{MeetingID: id, ClassID: "class-" + id, Day: day, StartMinute: s, EndMinute: e}
	for _, opt := range opts {
		opt(&entry)
	}
	return entry
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	t.Run("faculty overlap across rooms produces one faculty cluster", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "m1", Monday, "09:00", "10:30", withFaculty("F1"), withRoom("A")),
			newEntry(t, "m2", Monday, "10:00", "11:00", withFaculty("F1"), withRoom("B")),
		}

		clusters := Detect(entries, KindFaculty, nil)
		if len(clusters) != 1 {
			t.Fatalf("expected 1 faculty cluster, got %d", len(clusters))
		}
		got := clusters[0]
		if got.Kind != KindFaculty || got.ResourceID != "F1" || got.Day != Monday {
			t.Fatalf("unexpected cluster identity: %+v", got)
		}
		if got.WindowStart != 540 || got.WindowEnd != 660 {
			t.Fatalf("expected window [540,660), got [%d,%d)", got.WindowStart, got.WindowEnd)
		}
		if !reflect.DeepEqual(got.MeetingIDs(), []string{"m1", "m2"}) {
			t.Fatalf("unexpected members: %v", got.MeetingIDs())
		}

		if rooms := Detect(entries, KindRoom, nil); len(rooms) != 0 {
			t.Fatalf("expected no room clusters, got %+v", rooms)
		}
	})

	t.Run("adjacent meetings never conflict", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "m1", Tuesday, "13:00", "14:00", withRoom("R1")),
			newEntry(t, "m2", Tuesday, "14:00", "15:00", withRoom("R1")),
		}
		if clusters := Detect(entries, KindRoom, nil); len(clusters) != 0 {
			t.Fatalf("expected no clusters for adjacent meetings, got %+v", clusters)
		}
	})

	t.Run("transitively chained overlaps form a single cluster", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "m3", Wednesday, "09:15", "10:00", withSection("S1")),
			newEntry(t, "m1", Wednesday, "08:00", "09:00", withSection("S1")),
			newEntry(t, "m2", Wednesday, "08:30", "09:30", withSection("S1")),
		}

		clusters := Detect(entries, KindSection, nil)
		if len(clusters) != 1 {
			t.Fatalf("expected 1 section cluster, got %d", len(clusters))
		}
		if clusters[0].WindowStart != 480 || clusters[0].WindowEnd != 600 {
			t.Fatalf("expected window [480,600), got [%d,%d)", clusters[0].WindowStart, clusters[0].WindowEnd)
		}
		if !reflect.DeepEqual(clusters[0].MeetingIDs(), []string{"m1", "m2", "m3"}) {
			t.Fatalf("expected members sorted by start, got %v", clusters[0].MeetingIDs())
		}
	})

	t.Run("inverted meetings are dropped before detection", func(t *testing.T) {
		t.Parallel()

		classes := []Class{{ID: "c1", FacultyUserID: strPtr("F1"), SectionID: strPtr("S1")}}
		meetings := []Meeting{
			{ID: "bad", ClassID: "c1", DayOfWeek: "Mon", StartTime: "14:00", EndTime: "13:00", RoomID: strPtr("R1")},
			{ID: "good", ClassID: "c1", DayOfWeek: "Mon", StartTime: "13:00", EndTime: "14:30", RoomID: strPtr("R1")},
		}

		entries, _ := Ingest(meetings, classes)
		for _, cluster := range DetectAll(entries, nil) {
			for _, id := range cluster.MeetingIDs() {
				if id == "bad" {
					t.Fatalf("inverted meeting appeared in cluster %+v", cluster)
				}
			}
		}
	})

	t.Run("identical intervals on the same resource cluster together", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "dup-b", Thursday, "10:00", "11:00", withRoom("R9")),
			newEntry(t, "dup-a", Thursday, "10:00", "11:00", withRoom("R9")),
		}

		clusters := Detect(entries, KindRoom, nil)
		if len(clusters) != 1 || len(clusters[0].Entries) != 2 {
			t.Fatalf("expected one 2-entry cluster, got %+v", clusters)
		}
		if !reflect.DeepEqual(clusters[0].MeetingIDs(), []string{"dup-a", "dup-b"}) {
			t.Fatalf("expected deterministic member order, got %v", clusters[0].MeetingIDs())
		}
	})

	t.Run("different days never conflict", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "m1", Monday, "09:00", "10:00", withRoom("R1")),
			newEntry(t, "m2", Tuesday, "09:00", "10:00", withRoom("R1")),
			newEntry(t, "m3", Unknown, "09:00", "10:00", withRoom("R1")),
		}
		if clusters := Detect(entries, KindRoom, nil); len(clusters) != 0 {
			t.Fatalf("expected no cross-day clusters, got %+v", clusters)
		}
	})

	t.Run("unknown day entries only conflict with each other", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "m1", Unknown, "09:00", "10:00", withRoom("R1")),
			newEntry(t, "m2", Unknown, "09:30", "10:30", withRoom("R1")),
		}
		clusters := Detect(entries, KindRoom, nil)
		if len(clusters) != 1 || clusters[0].Day != Unknown {
			t.Fatalf("expected one Unknown-day cluster, got %+v", clusters)
		}
	})

	t.Run("entries without the resource id are excluded from that kind only", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "m1", Friday, "09:00", "10:00", withFaculty("F1")),
			newEntry(t, "m2", Friday, "09:30", "10:30", withFaculty("F1"), withRoom("  ")),
			newEntry(t, "m3", Friday, "09:30", "10:30", withRoom("R1")),
		}

		if got := Detect(entries, KindRoom, nil); len(got) != 0 {
			t.Fatalf("expected no room clusters, got %+v", got)
		}
		faculty := Detect(entries, KindFaculty, nil)
		if len(faculty) != 1 || !reflect.DeepEqual(faculty[0].MeetingIDs(), []string{"m1", "m2"}) {
			t.Fatalf("expected faculty cluster of m1/m2, got %+v", faculty)
		}
	})

	t.Run("separate overlap runs on the same resource are separate clusters", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "a1", Monday, "08:00", "09:00", withRoom("R1")),
			newEntry(t, "a2", Monday, "08:30", "09:00", withRoom("R1")),
			newEntry(t, "solo", Monday, "09:00", "10:00", withRoom("R1")),
			newEntry(t, "b1", Monday, "13:00", "15:00", withRoom("R1")),
			newEntry(t, "b2", Monday, "13:10", "13:20", withRoom("R1")),
			newEntry(t, "b3", Monday, "14:50", "16:00", withRoom("R1")),
		}

		clusters := Detect(entries, KindRoom, nil)
		if len(clusters) != 2 {
			t.Fatalf("expected 2 clusters, got %+v", clusters)
		}
		if !reflect.DeepEqual(clusters[0].MeetingIDs(), []string{"a1", "a2"}) {
			t.Fatalf("unexpected first cluster: %v", clusters[0].MeetingIDs())
		}
		if !reflect.DeepEqual(clusters[1].MeetingIDs(), []string{"b1", "b2", "b3"}) {
			t.Fatalf("unexpected second cluster: %v", clusters[1].MeetingIDs())
		}
		if clusters[1].WindowStart != 780 || clusters[1].WindowEnd != 960 {
			t.Fatalf("unexpected envelope: [%d,%d)", clusters[1].WindowStart, clusters[1].WindowEnd)
		}
	})

	t.Run("labels resolve through the injected function with id fallback", func(t *testing.T) {
		t.Parallel()

		labels := NewLabels(map[Kind]map[string]string{
			KindRoom: {"R1": "Hall 1"},
		})
		entries := []ScheduleEntry{
			newEntry(t, "m1", Monday, "09:00", "10:00", withRoom("R1"), withFaculty("F7")),
			newEntry(t, "m2", Monday, "09:30", "10:30", withRoom("R1"), withFaculty("F7")),
		}

		clusters := DetectAll(entries, labels.Resolve)
		if len(clusters) != 2 {
			t.Fatalf("expected room and faculty clusters, got %+v", clusters)
		}
		byKind := map[Kind]string{}
		for _, c := range clusters {
			byKind[c.Kind] = c.ResourceLabel
		}
		if byKind[KindRoom] != "Hall 1" {
			t.Fatalf("expected resolved room label, got %q", byKind[KindRoom])
		}
		if byKind[KindFaculty] != "F7" {
			t.Fatalf("expected faculty label to fall back to id, got %q", byKind[KindFaculty])
		}
	})

	t.Run("reordered input yields identical output", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "m1", Monday, "09:00", "10:00", withRoom("R1"), withFaculty("F1"), withSection("S1")),
			newEntry(t, "m2", Monday, "09:30", "11:00", withRoom("R1"), withFaculty("F2"), withSection("S1")),
			newEntry(t, "m3", Monday, "10:30", "11:30", withRoom("R2"), withFaculty("F1"), withSection("S2")),
			newEntry(t, "m4", Tuesday, "09:00", "10:00", withRoom("R2"), withFaculty("F1"), withSection("S2")),
			newEntry(t, "m5", Tuesday, "09:00", "10:00", withRoom("R2"), withFaculty("F2"), withSection("S2")),
			newEntry(t, "m6", Monday, "10:45", "12:00", withRoom("R2"), withFaculty("F3"), withSection("S2")),
		}
		reversed := make([]ScheduleEntry, len(entries))
		for i := range entries {
			reversed[len(entries)-1-i] = entries[i]
		}

		first := DetectAll(entries, nil)
		second := DetectAll(reversed, nil)
		if len(first) == 0 {
			t.Fatalf("expected clusters for fixture")
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("output depends on input order:\n%+v\n%+v", first, second)
		}
	})

	t.Run("every cluster has an exact envelope and at least two members", func(t *testing.T) {
		t.Parallel()

		entries := []ScheduleEntry{
			newEntry(t, "m1", Monday, "08:00", "12:00", withRoom("R1")),
			newEntry(t, "m2", Monday, "09:00", "09:30", withRoom("R1")),
			newEntry(t, "m3", Monday, "11:59", "12:30", withRoom("R1")),
			newEntry(t, "m4", Monday, "12:30", "13:00", withRoom("R1")),
		}

		for _, cluster := range Detect(entries, KindRoom, nil) {
			if len(cluster.Entries) < 2 {
				t.Fatalf("cluster with fewer than 2 entries: %+v", cluster)
			}
			minStart, maxEnd := cluster.Entries[0].StartMinute, cluster.Entries[0].EndMinute
			for _, e := range cluster.Entries {
				minStart = min(minStart, e.StartMinute)
				maxEnd = max(maxEnd, e.EndMinute)
			}
			if cluster.WindowStart != minStart || cluster.WindowEnd != maxEnd {
				t.Fatalf("envelope mismatch for %+v", cluster)
			}
		}
	})
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Kind{"faculty": KindFaculty, " Room ": KindRoom, "SECTION": KindSection} {
		got, err := ParseKind(input)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseKind("building"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
