package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/schedule-conflicts/internal/persistence"
	"github.com/example/schedule-conflicts/internal/persistence/sqlite"
	"github.com/example/schedule-conflicts/internal/persistence/sqlite/migration"
)

// SQLiteHarness wraps a migrated store on a temporary database file.
type SQLiteHarness struct {
	persistence.Repositories
	Store *sqlite.Store

	tb       testing.TB
	meetings int
}

// NewSQLiteHarness opens and migrates a fresh store. The store is closed
// through tb.Cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	config := migration.TempFileTestSQLiteConfig(filepath.Join(tb.TempDir(), "scheduler.db"))
	store, err := sqlite.Open(config, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}
	tb.Cleanup(func() { _ = store.Close() })

	if _, err := store.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate store: %v", err)
	}

	return &SQLiteHarness{Repositories: store.Repositories, Store: store, tb: tb}
}

// SeedVersion stores the version and returns it.
func (h *SQLiteHarness) SeedVersion(version VersionFixture) VersionFixture {
	h.tb.Helper()
	if err := h.Versions.CreateVersion(context.Background(), version.Persistence()); err != nil {
		h.tb.Fatalf("CreateVersion(%s) failed: %v", version.ID, err)
	}
	return version
}

func (h *SQLiteHarness) SeedClasses(versionID string, classes ...ClassFixture) {
	h.tb.Helper()
	for _, class := range classes {
		if err := h.Classes.UpsertClass(context.Background(), class.Persistence(versionID)); err != nil {
			h.tb.Fatalf("UpsertClass(%s) failed: %v", class.ID, err)
		}
	}
}

// SeedMeetings stores meetings in argument order, continuing the sort order
// across calls.
func (h *SQLiteHarness) SeedMeetings(versionID string, meetings ...MeetingFixture) {
	h.tb.Helper()
	for _, meeting := range meetings {
		if err := h.Meetings.UpsertMeeting(context.Background(), meeting.Persistence(versionID, h.meetings)); err != nil {
			h.tb.Fatalf("UpsertMeeting(%s) failed: %v", meeting.ID, err)
		}
		h.meetings++
	}
}

func (h *SQLiteHarness) SeedLabel(kind, id, label string) {
	h.tb.Helper()
	entry := persistence.DirectoryEntry{Kind: kind, ID: id, Label: label}
	if err := h.Directory.UpsertEntry(context.Background(), entry); err != nil {
		h.tb.Fatalf("UpsertEntry(%s/%s) failed: %v", kind, id, err)
	}
}

func (h *SQLiteHarness) SeedTimeBlock(departmentID, id, start, end string) {
	h.tb.Helper()
	block := persistence.TimeBlock{ID: id, DepartmentID: departmentID, Start: start, End: end, Label: start + "-" + end}
	if err := h.TimeBlocks.UpsertTimeBlock(context.Background(), block); err != nil {
		h.tb.Fatalf("UpsertTimeBlock(%s) failed: %v", id, err)
	}
}
