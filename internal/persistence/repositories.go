package persistence

import "context"

// ScheduleVersionRepository stores schedule versions.
type ScheduleVersionRepository interface {
	CreateVersion(ctx context.Context, version ScheduleVersion) error
	GetVersion(ctx context.Context, id string) (ScheduleVersion, error)
	ListVersions(ctx context.Context) ([]ScheduleVersion, error)
}

// ClassRepository stores classes belonging to a schedule version.
type ClassRepository interface {
	UpsertClass(ctx context.Context, class Class) error
	ListClassesByVersion(ctx context.Context, versionID string) ([]Class, error)
}

// MeetingRepository stores meetings belonging to a schedule version.
type MeetingRepository interface {
	UpsertMeeting(ctx context.Context, meeting Meeting) error
	ListMeetingsByVersion(ctx context.Context, versionID string) ([]Meeting, error)
}

// DirectoryRepository resolves resource identifiers to display labels.
type DirectoryRepository interface {
	UpsertEntry(ctx context.Context, entry DirectoryEntry) error
	ListLabels(ctx context.Context, kind string) (map[string]string, error)
}

// TimeBlockRepository stores department time blocks.
type TimeBlockRepository interface {
	UpsertTimeBlock(ctx context.Context, block TimeBlock) error
	ListTimeBlocksByDepartment(ctx context.Context, departmentID string) ([]TimeBlock, error)
}

// Repositories groups the repositories that share one connection or transaction.
type Repositories struct {
	Versions   ScheduleVersionRepository
	Classes    ClassRepository
	Meetings   MeetingRepository
	Directory  DirectoryRepository
	TimeBlocks TimeBlockRepository
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	Atomically(ctx context.Context, fn func(Repositories) error) error
}
