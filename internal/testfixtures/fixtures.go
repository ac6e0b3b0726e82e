package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/schedule-conflicts/internal/application"
	"github.com/example/schedule-conflicts/internal/persistence"
	"github.com/example/schedule-conflicts/internal/scheduler"
)

var (
	versionCounter uint64
	classCounter   uint64
	meetingCounter uint64
)

// ----------------------------- Version fixtures -----------------------------

// VersionFixture is a deterministic schedule version.
type VersionFixture struct {
	ID           string
	DepartmentID string
	Name         string
	Term         string
	CreatedAt    time.Time
}

// VersionOption configures the generated version fixture.
type VersionOption func(*VersionFixture)

// NewVersionFixture returns a version in department "dept-001" unless overridden.
func NewVersionFixture(opts ...VersionOption) VersionFixture {
	idx := atomic.AddUint64(&versionCounter, 1)
	fixture := VersionFixture{
		ID:           fmt.Sprintf("version-%03d", idx),
		DepartmentID: "dept-001",
		Name:         fmt.Sprintf("Draft %03d", idx),
		Term:         "2024-fall",
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithVersionID(id string) VersionOption {
	return func(f *VersionFixture) {
		f.ID = id
	}
}

func WithDepartment(id string) VersionOption {
	return func(f *VersionFixture) {
		f.DepartmentID = id
	}
}

func (f VersionFixture) Persistence() persistence.ScheduleVersion {
	return persistence.ScheduleVersion{
		ID:           f.ID,
		DepartmentID: f.DepartmentID,
		Name:         f.Name,
		Term:         f.Term,
		CreatedAt:    f.CreatedAt,
	}
}

func (f VersionFixture) Application() application.ScheduleVersion {
	return application.ScheduleVersion{
		ID:           f.ID,
		DepartmentID: f.DepartmentID,
		Name:         f.Name,
		Term:         f.Term,
		CreatedAt:    f.CreatedAt,
	}
}

// ----------------------------- Class fixtures -----------------------------

// ClassFixture is a deterministic class with no section or faculty by default.
type ClassFixture struct {
	ID            string
	SubjectID     string
	SectionID     *string
	FacultyUserID *string
	ClassCode     string
	Status        string
}

// ClassOption configures the generated class fixture.
type ClassOption func(*ClassFixture)

func NewClassFixture(opts ...ClassOption) ClassFixture {
	idx := atomic.AddUint64(&classCounter, 1)
	fixture := ClassFixture{
		ID:        fmt.Sprintf("class-%03d", idx),
		SubjectID: fmt.Sprintf("subject-%03d", idx),
		ClassCode: fmt.Sprintf("CLS%03d", idx),
		Status:    "active",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithClassID(id string) ClassOption {
	return func(f *ClassFixture) {
		f.ID = id
	}
}

func WithSection(id string) ClassOption {
	return func(f *ClassFixture) {
		f.SectionID = &id
	}
}

func WithFaculty(id string) ClassOption {
	return func(f *ClassFixture) {
		f.FacultyUserID = &id
	}
}

func WithClassStatus(status string) ClassOption {
	return func(f *ClassFixture) {
		f.Status = status
	}
}

func (f ClassFixture) Scheduler() scheduler.Class {
	return scheduler.Class{
		ID:            f.ID,
		SubjectID:     f.SubjectID,
		SectionID:     f.SectionID,
		FacultyUserID: f.FacultyUserID,
		ClassCode:     f.ClassCode,
		Status:        f.Status,
	}
}

func (f ClassFixture) Persistence(versionID string) persistence.Class {
	return persistence.Class{
		ID:            f.ID,
		VersionID:     versionID,
		SubjectID:     f.SubjectID,
		SectionID:     f.SectionID,
		FacultyUserID: f.FacultyUserID,
		ClassCode:     f.ClassCode,
		Status:        f.Status,
	}
}

// ----------------------------- Meeting fixtures -----------------------------

// MeetingFixture is a deterministic meeting, Monday 09:00-10:30 by default.
type MeetingFixture struct {
	ID          string
	ClassID     string
	DayOfWeek   string
	StartTime   string
	EndTime     string
	RoomID      *string
	MeetingType string
	Notes       string
}

// MeetingOption configures the generated meeting fixture.
type MeetingOption func(*MeetingFixture)

func NewMeetingFixture(classID string, opts ...MeetingOption) MeetingFixture {
	idx := atomic.AddUint64(&meetingCounter, 1)
	fixture := MeetingFixture{
		ID:          fmt.Sprintf("meeting-%03d", idx),
		ClassID:     classID,
		DayOfWeek:   "Monday",
		StartTime:   "09:00",
		EndTime:     "10:30",
		MeetingType: "lecture",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithMeetingID(id string) MeetingOption {
	return func(f *MeetingFixture) {
		f.ID = id
	}
}

// WithSlot sets the raw day and HH:MM times exactly as given.
func WithSlot(day, start, end string) MeetingOption {
	return func(f *MeetingFixture) {
		f.DayOfWeek = day
		f.StartTime = start
		f.EndTime = end
	}
}

func WithRoom(id string) MeetingOption {
	return func(f *MeetingFixture) {
		f.RoomID = &id
	}
}

func (f MeetingFixture) Scheduler() scheduler.Meeting {
	return scheduler.Meeting{
		ID:          f.ID,
		ClassID:     f.ClassID,
		DayOfWeek:   f.DayOfWeek,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		RoomID:      f.RoomID,
		MeetingType: f.MeetingType,
		Notes:       f.Notes,
	}
}

func (f MeetingFixture) Persistence(versionID string, sortOrder int) persistence.Meeting {
	return persistence.Meeting{
		ID:          f.ID,
		VersionID:   versionID,
		ClassID:     f.ClassID,
		DayOfWeek:   f.DayOfWeek,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		RoomID:      f.RoomID,
		MeetingType: f.MeetingType,
		Notes:       f.Notes,
		SortOrder:   sortOrder,
	}
}
