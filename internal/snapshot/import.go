package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/schedule-conflicts/internal/persistence"
	"github.com/example/schedule-conflicts/internal/scheduler"
)

// ErrInvalidSnapshot reports a snapshot missing required fields.
var ErrInvalidSnapshot = errors.New("snapshot: invalid snapshot")

// Result counts what an import wrote.
type Result struct {
	VersionID      string
	VersionCreated bool
	Classes        int
	Meetings       int
	Labels         int
	TimeBlocks     int
}

// Importer writes snapshots through a persistence.Transactor.
type Importer struct {
	tx     persistence.Transactor
	newID  func() string
	now    func() time.Time
	logger *slog.Logger
}

// Option customises an Importer.
type Option func(*Importer)

// WithIDGenerator replaces uuid generation for rows without an id.
func WithIDGenerator(next func() string) Option {
	return func(i *Importer) {
		if next != nil {
			i.newID = next
		}
	}
}

// WithClock replaces the time source used for version creation.
func WithClock(now func() time.Time) Option {
	return func(i *Importer) {
		if now != nil {
			i.now = now
		}
	}
}

// WithLogger sets the importer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func NewImporter(tx persistence.Transactor, opts ...Option) *Importer {
	i := &Importer{
		tx:     tx,
		newID:  uuid.NewString,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import upserts the snapshot in a single transaction. The version is created
// when it does not exist yet; an existing version keeps its metadata and
// receives the snapshot's rows.
func (i *Importer) Import(ctx context.Context, snap Snapshot) (Result, error) {
	if err := validate(snap); err != nil {
		return Result{}, err
	}

	snap = i.fillIDs(snap)
	result := Result{VersionID: snap.Version.ID}

	err := i.tx.Atomically(ctx, func(repos persistence.Repositories) error {
		result = Result{VersionID: snap.Version.ID}

		_, err := repos.Versions.GetVersion(ctx, snap.Version.ID)
		switch {
		case errors.Is(err, persistence.ErrNotFound):
			if err := repos.Versions.CreateVersion(ctx, persistence.ScheduleVersion{
				ID:           snap.Version.ID,
				DepartmentID: snap.Version.DepartmentID,
				Name:         snap.Version.Name,
				Term:         snap.Version.Term,
				CreatedAt:    i.now().UTC(),
			}); err != nil {
				return fmt.Errorf("create version: %w", err)
			}
			result.VersionCreated = true
		case err != nil:
			return fmt.Errorf("get version: %w", err)
		}

		for _, class := range snap.Classes {
			if err := repos.Classes.UpsertClass(ctx, persistence.Class{
				ID:            class.ID,
				VersionID:     snap.Version.ID,
				SubjectID:     class.SubjectID,
				SectionID:     class.SectionID,
				FacultyUserID: class.FacultyUserID,
				ClassCode:     class.ClassCode,
				Status:        class.Status,
			}); err != nil {
				return fmt.Errorf("upsert class %s: %w", class.ID, err)
			}
			result.Classes++
		}

		for idx, meeting := range snap.Meetings {
			if err := repos.Meetings.UpsertMeeting(ctx, persistence.Meeting{
				ID:          meeting.ID,
				VersionID:   snap.Version.ID,
				ClassID:     meeting.ClassID,
				DayOfWeek:   meeting.DayOfWeek,
				StartTime:   meeting.StartTime,
				EndTime:     meeting.EndTime,
				RoomID:      meeting.RoomID,
				MeetingType: meeting.MeetingType,
				Notes:       meeting.Notes,
				SortOrder:   idx,
			}); err != nil {
				return fmt.Errorf("upsert meeting %s: %w", meeting.ID, err)
			}
			result.Meetings++
		}

		for _, kind := range sortedKinds(snap.Directory) {
			labels := snap.Directory[kind]
			ids := make([]string, 0, len(labels))
			for id := range labels {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				if err := repos.Directory.UpsertEntry(ctx, persistence.DirectoryEntry{Kind: kind, ID: id, Label: labels[id]}); err != nil {
					return fmt.Errorf("upsert %s label %s: %w", kind, id, err)
				}
				result.Labels++
			}
		}

		for _, block := range snap.TimeBlocks {
			if err := repos.TimeBlocks.UpsertTimeBlock(ctx, persistence.TimeBlock{
				ID:           block.ID,
				DepartmentID: snap.Version.DepartmentID,
				Start:        block.Start,
				End:          block.End,
				Label:        block.Label,
			}); err != nil {
				return fmt.Errorf("upsert time block %s: %w", block.ID, err)
			}
			result.TimeBlocks++
		}
		return nil
	})
	if err != nil {
		i.logger.ErrorContext(ctx, "snapshot import failed", "version_id", snap.Version.ID, "error", err)
		return Result{}, err
	}

	i.logger.InfoContext(ctx, "snapshot imported",
		"version_id", result.VersionID,
		"version_created", result.VersionCreated,
		"classes", result.Classes,
		"meetings", result.Meetings,
		"labels", result.Labels,
		"time_blocks", result.TimeBlocks,
	)
	return result, nil
}

// fillIDs assigns generated ids to the version, meetings and time blocks that
// lack one. Classes must carry ids since meetings reference them.
func (i *Importer) fillIDs(snap Snapshot) Snapshot {
	if strings.TrimSpace(snap.Version.ID) == "" {
		snap.Version.ID = i.newID()
	}

	meetings := make([]Meeting, len(snap.Meetings))
	copy(meetings, snap.Meetings)
	for idx := range meetings {
		if strings.TrimSpace(meetings[idx].ID) == "" {
			meetings[idx].ID = i.newID()
		}
	}
	snap.Meetings = meetings

	blocks := make([]TimeBlock, len(snap.TimeBlocks))
	copy(blocks, snap.TimeBlocks)
	for idx := range blocks {
		if strings.TrimSpace(blocks[idx].ID) == "" {
			blocks[idx].ID = i.newID()
		}
	}
	snap.TimeBlocks = blocks
	return snap
}

func validate(snap Snapshot) error {
	var problems []string
	if strings.TrimSpace(snap.Version.DepartmentID) == "" {
		problems = append(problems, "version.department_id is required")
	}
	if strings.TrimSpace(snap.Version.Name) == "" {
		problems = append(problems, "version.name is required")
	}
	for idx, class := range snap.Classes {
		if strings.TrimSpace(class.ID) == "" {
			problems = append(problems, fmt.Sprintf("classes[%d].id is required", idx))
		}
	}
	for kind := range snap.Directory {
		if parsed, err := scheduler.ParseKind(kind); err != nil || string(parsed) != kind {
			problems = append(problems, fmt.Sprintf("directory.%s is not a resource kind", kind))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(problems, "; "))
}

func sortedKinds(directory map[string]Directory) []string {
	kinds := make([]string, 0, len(directory))
	for kind := range directory {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
