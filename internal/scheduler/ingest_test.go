package scheduler

import "testing"

func strPtr(value string) *string {
	return &value
}

func TestIngest(t *testing.T) {
	t.Parallel()

	classes := []Class{
		{ID: "c1", SubjectID: "math", SectionID: strPtr("S1"), FacultyUserID: strPtr("F1"), ClassCode: "MATH101", Status: "active"},
		{ID: "c2", SubjectID: "phys", SectionID: strPtr("  "), FacultyUserID: nil, ClassCode: "PHYS101"},
	}

	t.Run("joins meetings to classes and copies fields", func(t *testing.T) {
		t.Parallel()

		meetings := []Meeting{
			{ID: "m1", ClassID: "c1", DayOfWeek: "mon", StartTime: "09:00", EndTime: "10:30", RoomID: strPtr("R1"), MeetingType: "lecture", Notes: "bring lab coat"},
		}

		entries, stats := Ingest(meetings, classes)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if stats.Accepted != 1 || stats.DroppedTotal() != 0 {
			t.Fatalf("unexpected stats: %+v", stats)
		}

		got := entries[0]
		if got.Day != Monday || got.StartMinute != 540 || got.EndMinute != 630 {
			t.Fatalf("unexpected day/time: %+v", got)
		}
		if KeyOf(got, KindFaculty) != "F1" || KeyOf(got, KindRoom) != "R1" || KeyOf(got, KindSection) != "S1" {
			t.Fatalf("unexpected resource keys: %+v", got)
		}
		if got.SubjectID != "math" || got.ClassCode != "MATH101" || got.MeetingType != "lecture" || got.Notes != "bring lab coat" || got.ClassStatus != "active" {
			t.Fatalf("descriptive fields not carried: %+v", got)
		}
	})

	t.Run("blank resource ids are treated as absent", func(t *testing.T) {
		t.Parallel()

		entries, _ := Ingest([]Meeting{
			{ID: "m2", ClassID: "c2", DayOfWeek: "Tue", StartTime: "10:00", EndTime: "11:00", RoomID: strPtr("")},
		}, classes)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].RoomID != nil || entries[0].SectionID != nil || entries[0].FacultyUserID != nil {
			t.Fatalf("expected nil resource ids, got %+v", entries[0])
		}
	})

	t.Run("drops malformed and orphaned meetings silently", func(t *testing.T) {
		t.Parallel()

		meetings := []Meeting{
			{ID: "orphan", ClassID: "missing", DayOfWeek: "Mon", StartTime: "09:00", EndTime: "10:00"},
			{ID: "no-class", DayOfWeek: "Mon", StartTime: "09:00", EndTime: "10:00"},
			{ID: "bad-start", ClassID: "c1", DayOfWeek: "Mon", StartTime: "25:00", EndTime: "10:00"},
			{ID: "bad-end", ClassID: "c1", DayOfWeek: "Mon", StartTime: "09:00", EndTime: "9:5"},
			{ID: "empty", ClassID: "c1", DayOfWeek: "Mon", StartTime: "", EndTime: "10:00"},
			{ID: "inverted", ClassID: "c1", DayOfWeek: "Mon", StartTime: "14:00", EndTime: "13:00"},
			{ID: "zero", ClassID: "c1", DayOfWeek: "Mon", StartTime: "14:00", EndTime: "14:00"},
			{ID: "ok", ClassID: "c1", DayOfWeek: "Mon", StartTime: "14:00", EndTime: "15:00"},
		}

		entries, stats := Ingest(meetings, classes)
		if len(entries) != 1 || entries[0].MeetingID != "ok" {
			t.Fatalf("expected only the valid meeting, got %+v", entries)
		}
		if stats.Dropped[DropOrphan] != 2 {
			t.Fatalf("expected 2 orphans, got %d", stats.Dropped[DropOrphan])
		}
		if stats.Dropped[DropInvalidTime] != 3 {
			t.Fatalf("expected 3 invalid times, got %d", stats.Dropped[DropInvalidTime])
		}
		if stats.Dropped[DropNonPositiveDuration] != 2 {
			t.Fatalf("expected 2 non-positive durations, got %d", stats.Dropped[DropNonPositiveDuration])
		}
		if stats.DroppedTotal() != 7 {
			t.Fatalf("expected 7 drops, got %d", stats.DroppedTotal())
		}
	})

	t.Run("unrecognised days are kept under Unknown", func(t *testing.T) {
		t.Parallel()

		entries, _ := Ingest([]Meeting{
			{ID: "m3", ClassID: "c1", DayOfWeek: "TBA", StartTime: "09:00", EndTime: "10:00"},
		}, classes)
		if len(entries) != 1 || entries[0].Day != Unknown {
			t.Fatalf("expected Unknown day entry, got %+v", entries)
		}
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		t.Parallel()

		entries, stats := Ingest(nil, classes)
		if entries != nil || stats.Accepted != 0 {
			t.Fatalf("expected no entries, got %+v %+v", entries, stats)
		}
	})
}
