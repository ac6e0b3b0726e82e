package persistence

import "time"

// ScheduleVersion is one named draft of a department's timetable.
type ScheduleVersion struct {
	ID           string
	DepartmentID string
	Name         string
	Term         string
	CreatedAt    time.Time
}

// Class is a course offering inside a schedule version.
type Class struct {
	ID            string
	VersionID     string
	SubjectID     string
	SectionID     *string
	FacultyUserID *string
	ClassCode     string
	Status        string
}

// Meeting is a recurring weekly session of a class. Day and times are kept
// exactly as captured so that malformed rows survive until analysis.
type Meeting struct {
	ID          string
	VersionID   string
	ClassID     string
	DayOfWeek   string
	StartTime   string
	EndTime     string
	RoomID      *string
	MeetingType string
	Notes       string
	SortOrder   int
}

// DirectoryEntry maps a resource identifier to its display label.
type DirectoryEntry struct {
	Kind  string
	ID    string
	Label string
}

// TimeBlock is a department-defined teaching period in HH:MM form.
type TimeBlock struct {
	ID           string
	DepartmentID string
	Start        string
	End          string
	Label        string
}
