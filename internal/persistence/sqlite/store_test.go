package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/schedule-conflicts/internal/persistence"
	"github.com/example/schedule-conflicts/internal/persistence/sqlite/migration"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	config := migration.TempFileTestSQLiteConfig(filepath.Join(t.TempDir(), "test.db"))
	store, err := Open(config, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if _, err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return store
}

func seedVersion(t *testing.T, store *Store, id string) persistence.ScheduleVersion {
	t.Helper()

	version := persistence.ScheduleVersion{
		ID:           id,
		DepartmentID: "dept-eng",
		Name:         "Draft " + id,
		Term:         "2024-spring",
		CreatedAt:    time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC),
	}
	if err := store.Versions.CreateVersion(context.Background(), version); err != nil {
		t.Fatalf("CreateVersion failed: %v", err)
	}
	return version
}

func strPtr(value string) *string {
	return &value
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	store := setupStore(t)

	applied, err := store.Migrate(context.Background())
	if err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected no pending migrations, applied %d", applied)
	}

	status, err := store.MigrationStatus(context.Background())
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if status.CurrentVersion != "001" {
		t.Fatalf("expected schema version 001, got %q", status.CurrentVersion)
	}
}

func TestScheduleVersionRepository(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	created := seedVersion(t, store, "v1")

	fetched, err := store.Versions.GetVersion(ctx, "v1")
	if err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}
	if fetched.Name != created.Name || fetched.DepartmentID != created.DepartmentID || !fetched.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected version: %+v", fetched)
	}

	if _, err := store.Versions.GetVersion(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Versions.CreateVersion(ctx, created); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := store.Versions.CreateVersion(ctx, persistence.ScheduleVersion{ID: "v2"}); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}

	later := created
	later.ID = "v0"
	later.CreatedAt = created.CreatedAt.Add(time.Hour)
	if err := store.Versions.CreateVersion(ctx, later); err != nil {
		t.Fatalf("CreateVersion failed: %v", err)
	}

	versions, err := store.Versions.ListVersions(ctx)
	if err != nil {
		t.Fatalf("ListVersions failed: %v", err)
	}
	if len(versions) != 2 || versions[0].ID != "v0" || versions[1].ID != "v1" {
		t.Fatalf("expected newest first, got %+v", versions)
	}
}

func TestClassAndMeetingRepositories(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	seedVersion(t, store, "v1")

	class := persistence.Class{
		ID:            "c1",
		VersionID:     "v1",
		SubjectID:     "math",
		SectionID:     strPtr("S1"),
		FacultyUserID: nil,
		ClassCode:     "MATH101",
		Status:        "active",
	}
	if err := store.Classes.UpsertClass(ctx, class); err != nil {
		t.Fatalf("UpsertClass failed: %v", err)
	}
	class.FacultyUserID = strPtr("F1")
	if err := store.Classes.UpsertClass(ctx, class); err != nil {
		t.Fatalf("UpsertClass update failed: %v", err)
	}

	classes, err := store.Classes.ListClassesByVersion(ctx, "v1")
	if err != nil {
		t.Fatalf("ListClassesByVersion failed: %v", err)
	}
	if len(classes) != 1 || classes[0].FacultyUserID == nil || *classes[0].FacultyUserID != "F1" || *classes[0].SectionID != "S1" {
		t.Fatalf("unexpected classes: %+v", classes)
	}

	meetings := []persistence.Meeting{
		{ID: "m-b", VersionID: "v1", ClassID: "c1", DayOfWeek: "Mon", StartTime: "09:00", EndTime: "10:00", SortOrder: 1},
		{ID: "m-a", VersionID: "v1", ClassID: "c1", DayOfWeek: "Mon", StartTime: "10:00", EndTime: "11:00", SortOrder: 1, RoomID: strPtr("R1")},
		{ID: "m-z", VersionID: "v1", ClassID: "missing", DayOfWeek: "TBA", StartTime: "9:5", EndTime: "", SortOrder: 0},
	}
	for _, meeting := range meetings {
		if err := store.Meetings.UpsertMeeting(ctx, meeting); err != nil {
			t.Fatalf("UpsertMeeting(%s) failed: %v", meeting.ID, err)
		}
	}

	listed, err := store.Meetings.ListMeetingsByVersion(ctx, "v1")
	if err != nil {
		t.Fatalf("ListMeetingsByVersion failed: %v", err)
	}
	if len(listed) != 3 || listed[0].ID != "m-z" || listed[1].ID != "m-a" || listed[2].ID != "m-b" {
		t.Fatalf("expected sort_order then id ordering, got %+v", listed)
	}
	if listed[0].StartTime != "9:5" || listed[0].DayOfWeek != "TBA" {
		t.Fatalf("expected raw values to round-trip, got %+v", listed[0])
	}
	if listed[1].RoomID == nil || *listed[1].RoomID != "R1" || listed[2].RoomID != nil {
		t.Fatalf("unexpected room ids: %+v", listed)
	}

	orphanVersion := persistence.Meeting{ID: "m-x", VersionID: "nope", ClassID: "c1"}
	if err := store.Meetings.UpsertMeeting(ctx, orphanVersion); !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestDirectoryAndTimeBlockRepositories(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	entries := []persistence.DirectoryEntry{
		{Kind: "room", ID: "R1", Label: "Room 101"},
		{Kind: "room", ID: "R2", Label: "Lab"},
		{Kind: "faculty", ID: "F1", Label: "Dr. Smith"},
		{Kind: "room", ID: "R2", Label: "Lab 2"},
	}
	for _, entry := range entries {
		if err := store.Directory.UpsertEntry(ctx, entry); err != nil {
			t.Fatalf("UpsertEntry failed: %v", err)
		}
	}

	labels, err := store.Directory.ListLabels(ctx, "room")
	if err != nil {
		t.Fatalf("ListLabels failed: %v", err)
	}
	if len(labels) != 2 || labels["R1"] != "Room 101" || labels["R2"] != "Lab 2" {
		t.Fatalf("unexpected room labels: %v", labels)
	}

	if err := store.Directory.UpsertEntry(ctx, persistence.DirectoryEntry{Kind: "building", ID: "B1", Label: "Main"}); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation for unknown kind, got %v", err)
	}

	blocks := []persistence.TimeBlock{
		{ID: "p2", DepartmentID: "dept-eng", Start: "09:40", End: "11:10", Label: "2nd"},
		{ID: "p1", DepartmentID: "dept-eng", Start: "08:00", End: "09:30", Label: "1st"},
		{ID: "x1", DepartmentID: "dept-law", Start: "08:00", End: "09:00"},
	}
	for _, block := range blocks {
		if err := store.TimeBlocks.UpsertTimeBlock(ctx, block); err != nil {
			t.Fatalf("UpsertTimeBlock failed: %v", err)
		}
	}

	listed, err := store.TimeBlocks.ListTimeBlocksByDepartment(ctx, "dept-eng")
	if err != nil {
		t.Fatalf("ListTimeBlocksByDepartment failed: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "p1" || listed[1].ID != "p2" {
		t.Fatalf("unexpected time blocks: %+v", listed)
	}
}

func TestStore_AtomicallyRollsBack(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	boom := errors.New("boom")
	err := store.Atomically(ctx, func(repos persistence.Repositories) error {
		if err := repos.Versions.CreateVersion(ctx, persistence.ScheduleVersion{ID: "v1", DepartmentID: "d", Name: "n"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := store.Versions.GetVersion(ctx, "v1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected rolled back version to be absent, got %v", err)
	}

	err = store.Atomically(ctx, func(repos persistence.Repositories) error {
		if err := repos.Versions.CreateVersion(ctx, persistence.ScheduleVersion{ID: "v2", DepartmentID: "d", Name: "n"}); err != nil {
			return err
		}
		return repos.Classes.UpsertClass(ctx, persistence.Class{ID: "c1", VersionID: "v2"})
	})
	if err != nil {
		t.Fatalf("Atomically failed: %v", err)
	}
	classes, err := store.Classes.ListClassesByVersion(ctx, "v2")
	if err != nil || len(classes) != 1 {
		t.Fatalf("expected committed class, got %+v (%v)", classes, err)
	}
}

func TestErrorMapper(t *testing.T) {
	mapper := NewErrorMapper()

	cases := map[string]error{
		"UNIQUE constraint failed: schedule_versions.id": persistence.ErrDuplicate,
		"FOREIGN KEY constraint failed":                  persistence.ErrForeignKeyViolation,
		"CHECK constraint failed: kind":                  persistence.ErrConstraintViolation,
		"NOT NULL constraint failed: classes.version_id": persistence.ErrConstraintViolation,
	}
	for msg, want := range cases {
		if err := mapper.MapError(errors.New(msg)); !errors.Is(err, want) {
			t.Errorf("MapError(%q) = %v, want %v", msg, err, want)
		}
	}

	other := errors.New("disk I/O error")
	if err := mapper.MapError(other); err != other {
		t.Errorf("expected unmapped error to pass through, got %v", err)
	}
	if mapper.MapError(nil) != nil {
		t.Errorf("expected nil to stay nil")
	}
}
