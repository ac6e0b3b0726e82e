package scheduler

import "strings"

// Meeting is a raw weekly meeting record as supplied by the data source.
type Meeting struct {
	ID          string
	ClassID     string
	DayOfWeek   string
	StartTime   string
	EndTime     string
	RoomID      *string
	MeetingType string
	Notes       string
}

// Class is the owning class offering a meeting belongs to.
type Class struct {
	ID            string
	SubjectID     string
	SectionID     *string
	FacultyUserID *string
	ClassCode     string
	Status        string
}

// ScheduleEntry is one validated weekly-recurring meeting occurrence.
//
// StartMinute and EndMinute are offsets in [0, MinutesPerDay) with
// EndMinute > StartMinute. A nil resource id excludes the entry from that
// resource dimension.
type ScheduleEntry struct {
	MeetingID   string
	ClassID     string
	Day         Day
	StartMinute int
	EndMinute   int

	RoomID        *string
	FacultyUserID *string
	SectionID     *string

	SubjectID   string
	ClassCode   string
	MeetingType string
	Notes       string
	ClassStatus string
}

// Duration returns the meeting length in minutes.
func (e ScheduleEntry) Duration() int {
	return e.EndMinute - e.StartMinute
}

// Overlaps reports whether two entries share any instant under half-open
// [start, end) semantics. Day and resource are not considered.
func Overlaps(a, b ScheduleEntry) bool {
	return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

// KeyOf returns the resource id the entry holds for kind, or "" when absent.
func KeyOf(entry ScheduleEntry, kind Kind) string {
	switch kind {
	case KindFaculty:
		return derefTrim(entry.FacultyUserID)
	case KindRoom:
		return derefTrim(entry.RoomID)
	case KindSection:
		return derefTrim(entry.SectionID)
	default:
		return ""
	}
}

func derefTrim(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func optionalID(value *string) *string {
	trimmed := derefTrim(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
