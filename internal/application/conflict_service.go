package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/schedule-conflicts/internal/persistence"
	"github.com/example/schedule-conflicts/internal/scheduler"
)

// VersionRepository reads schedule versions.
type VersionRepository interface {
	GetVersion(ctx context.Context, id string) (ScheduleVersion, error)
	ListVersions(ctx context.Context) ([]ScheduleVersion, error)
}

// ScheduleSource reads the raw meetings and classes of a version.
type ScheduleSource interface {
	ListMeetings(ctx context.Context, versionID string) ([]scheduler.Meeting, error)
	ListClasses(ctx context.Context, versionID string) ([]scheduler.Class, error)
}

// LabelDirectory resolves resource ids to display labels.
type LabelDirectory interface {
	ListLabels(ctx context.Context, kind scheduler.Kind) (map[string]string, error)
}

// TimeBlockCatalog lists the teaching periods a department defines.
type TimeBlockCatalog interface {
	ListTimeBlocks(ctx context.Context, departmentID string) ([]TimeBlock, error)
}

// Recorder receives per-run measurements. A nil Recorder discards them.
type Recorder interface {
	RecordRun(kind scheduler.Kind, clusters int)
	RecordDropped(reason scheduler.DropReason, count int)
	ObserveDuration(operation string, elapsed time.Duration)
}

// ConflictServiceDeps collects the collaborators of a ConflictService.
// Directory, TimeBlocks and Recorder are optional.
type ConflictServiceDeps struct {
	Versions   VersionRepository
	Schedules  ScheduleSource
	Directory  LabelDirectory
	TimeBlocks TimeBlockCatalog
	Recorder   Recorder
	// TimeSlots overrides department time blocks for every grid when set.
	TimeSlots []scheduler.TimeSlot
	Now       func() time.Time
	Logger    *slog.Logger
}

// ConflictService loads a schedule version and runs the conflict engine over it.
type ConflictService struct {
	versions   VersionRepository
	schedules  ScheduleSource
	directory  LabelDirectory
	timeBlocks TimeBlockCatalog
	recorder   Recorder
	timeSlots  []scheduler.TimeSlot
	now        func() time.Time
	logger     *slog.Logger
}

// NewConflictService constructs a conflict service. Configured time slots are
// validated up front and rejected with ErrInvalidArgument.
func NewConflictService(deps ConflictServiceDeps) (*ConflictService, error) {
	if deps.Versions == nil || deps.Schedules == nil {
		return nil, fmt.Errorf("%w: versions and schedules are required", ErrInvalidArgument)
	}
	if len(deps.TimeSlots) > 0 {
		if err := scheduler.ValidateTimeSlots(deps.TimeSlots); err != nil {
			return nil, fmt.Errorf("%w: configured time slots: %v", ErrInvalidArgument, err)
		}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ConflictService{
		versions:   deps.Versions,
		schedules:  deps.Schedules,
		directory:  deps.Directory,
		timeBlocks: deps.TimeBlocks,
		recorder:   deps.Recorder,
		timeSlots:  append([]scheduler.TimeSlot(nil), deps.TimeSlots...),
		now:        now,
		logger:     deps.Logger,
	}, nil
}

func (s *ConflictService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return operationLogger(ctx, s.logger, operation, attrs...)
}

// ListVersions returns the stored schedule versions.
func (s *ConflictService) ListVersions(ctx context.Context) ([]ScheduleVersion, error) {
	if s == nil {
		return nil, fmt.Errorf("ConflictService is nil")
	}
	versions, err := s.versions.ListVersions(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListVersions").ErrorContext(ctx, "failed to list versions", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return versions, nil
}

// DetectConflicts finds and ranks every overlap cluster of the requested kinds.
func (s *ConflictService) DetectConflicts(ctx context.Context, params DetectParams) (report ConflictReport, err error) {
	if s == nil {
		err = fmt.Errorf("ConflictService is nil")
		return
	}

	started := time.Now()
	logger := s.loggerWith(ctx, "DetectConflicts", "version_id", params.VersionID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "conflict detection failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "conflict detection completed",
			"clusters", len(report.Clusters),
			"entries", report.Summary.EntriesAnalysed,
			"dropped", report.Summary.Ingest.DroppedTotal(),
		)
	}()

	vErr := &ValidationError{}
	versionID := validateVersionID(params.VersionID, vErr)
	kinds := parseKinds(params.Kinds, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	version, err := s.loadVersion(ctx, versionID)
	if err != nil {
		return
	}

	in, err := s.gather(ctx, versionID, kinds)
	if err != nil {
		return
	}

	for _, kind := range kinds {
		logger.DebugContext(ctx, "labels loaded", "kind", kind, "labels", in.labels.Len(kind))
	}

	entries, stats := scheduler.Ingest(in.meetings, in.classes)
	clusters := scheduler.DetectAll(entries, in.labels.Resolve, kinds...)

	report = ConflictReport{
		Version:     version,
		Kinds:       kinds,
		Clusters:    clusters,
		Summary:     summarize(clusters, kinds, len(entries), stats),
		GeneratedAt: s.now(),
	}
	s.record(kinds, report.Summary, "detect", time.Since(started))
	return report, nil
}

// ProjectGrid lays out one resource's meetings on the weekly grid and flags overlaps.
func (s *ConflictService) ProjectGrid(ctx context.Context, params GridParams) (view GridView, err error) {
	if s == nil {
		err = fmt.Errorf("ConflictService is nil")
		return
	}

	started := time.Now()
	logger := s.loggerWith(ctx, "ProjectGrid",
		"version_id", params.VersionID,
		"kind", params.Kind,
		"resource_id", params.ResourceID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "grid projection failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "grid projected",
			"slot_source", view.SlotSource,
			"conflicts", len(view.Grid.Conflicts),
			"unplaced", len(view.Grid.Unplaced),
		)
	}()

	vErr := &ValidationError{}
	versionID := validateVersionID(params.VersionID, vErr)
	kinds := parseKinds([]string{params.Kind}, vErr)
	resourceID := strings.TrimSpace(params.ResourceID)
	if resourceID == "" {
		vErr.add("resource_id", "resource_id is required")
	}
	if strings.TrimSpace(params.Kind) == "" {
		vErr.add("kind", "kind is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}
	kind := kinds[0]

	version, err := s.loadVersion(ctx, versionID)
	if err != nil {
		return
	}

	var (
		in     inputs
		blocks []TimeBlock
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gatherErr error
		in, gatherErr = s.gather(gctx, versionID, kinds)
		return gatherErr
	})
	if len(s.timeSlots) == 0 && s.timeBlocks != nil {
		g.Go(func() error {
			var blockErr error
			blocks, blockErr = s.timeBlocks.ListTimeBlocks(gctx, version.DepartmentID)
			if blockErr != nil {
				return fmt.Errorf("list time blocks: %w", blockErr)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return
	}

	slots, source, err := s.resolveSlots(blocks)
	if err != nil {
		return
	}

	entries, stats := scheduler.Ingest(in.meetings, in.classes)
	grid, err := scheduler.ProjectGrid(entries, kind, resourceID, slots)
	if err != nil {
		return
	}

	view = GridView{
		Version:       version,
		ResourceLabel: in.labels.Resolve(kind, resourceID),
		SlotSource:    source,
		Grid:          grid,
		Ingest:        stats,
		GeneratedAt:   s.now(),
	}
	s.observe("grid", time.Since(started))
	return view, nil
}

type inputs struct {
	meetings []scheduler.Meeting
	classes  []scheduler.Class
	labels   scheduler.Labels
}

// gather loads meetings, classes and per-kind labels concurrently.
func (s *ConflictService) gather(ctx context.Context, versionID string, kinds []scheduler.Kind) (inputs, error) {
	var in inputs
	byKind := make([]map[string]string, len(kinds))
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		meetings, err := s.schedules.ListMeetings(gctx, versionID)
		if err != nil {
			return fmt.Errorf("list meetings: %w", err)
		}
		in.meetings = meetings
		return nil
	})
	g.Go(func() error {
		classes, err := s.schedules.ListClasses(gctx, versionID)
		if err != nil {
			return fmt.Errorf("list classes: %w", err)
		}
		in.classes = classes
		return nil
	})
	if s.directory != nil {
		for i, kind := range kinds {
			g.Go(func() error {
				labels, err := s.directory.ListLabels(gctx, kind)
				if err != nil {
					return fmt.Errorf("list %s labels: %w", kind, err)
				}
				byKind[i] = labels
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return inputs{}, err
	}

	snapshot := make(map[scheduler.Kind]map[string]string, len(kinds))
	for i, kind := range kinds {
		if byKind[i] != nil {
			snapshot[kind] = byKind[i]
		}
	}
	in.labels = scheduler.NewLabels(snapshot)
	return in, nil
}

func (s *ConflictService) loadVersion(ctx context.Context, id string) (ScheduleVersion, error) {
	version, err := s.versions.GetVersion(ctx, id)
	if err != nil {
		if isNotFoundError(err) {
			return ScheduleVersion{}, fmt.Errorf("schedule version %q: %w", id, ErrNotFound)
		}
		return ScheduleVersion{}, fmt.Errorf("load schedule version: %w", err)
	}
	return version, nil
}

// resolveSlots prefers configured slots, then department blocks, then the default hourly grid.
func (s *ConflictService) resolveSlots(blocks []TimeBlock) ([]scheduler.TimeSlot, SlotSource, error) {
	if len(s.timeSlots) > 0 {
		return s.timeSlots, SlotSourceConfig, nil
	}
	if len(blocks) == 0 {
		return scheduler.DefaultTimeSlots(), SlotSourceDefault, nil
	}

	vErr := &ValidationError{}
	slots := make([]scheduler.TimeSlot, 0, len(blocks))
	for _, block := range blocks {
		slot, err := scheduler.ParseTimeSlot(block.Start, block.End)
		if err != nil {
			vErr.add("time_blocks."+block.ID, err.Error())
			continue
		}
		slots = append(slots, slot)
	}
	if vErr.HasErrors() {
		return nil, "", vErr
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	if err := scheduler.ValidateTimeSlots(slots); err != nil {
		vErr.add("time_blocks", err.Error())
		return nil, "", vErr
	}
	return slots, SlotSourceDepartment, nil
}

func (s *ConflictService) record(kinds []scheduler.Kind, summary ConflictSummary, operation string, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	for _, kind := range kinds {
		s.recorder.RecordRun(kind, summary.ClustersByKind[kind])
	}
	for reason, count := range summary.Ingest.Dropped {
		s.recorder.RecordDropped(reason, count)
	}
	s.recorder.ObserveDuration(operation, elapsed)
}

func (s *ConflictService) observe(operation string, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveDuration(operation, elapsed)
}

func summarize(clusters []scheduler.ConflictCluster, kinds []scheduler.Kind, analysed int, stats scheduler.IngestStats) ConflictSummary {
	summary := ConflictSummary{
		ClustersByKind:  make(map[scheduler.Kind]int, len(kinds)),
		EntriesAnalysed: analysed,
		Ingest:          stats,
	}
	for _, kind := range kinds {
		summary.ClustersByKind[kind] = 0
	}
	conflicted := make(map[string]struct{})
	for _, cluster := range clusters {
		summary.ClustersByKind[cluster.Kind]++
		for _, entry := range cluster.Entries {
			conflicted[entry.MeetingID] = struct{}{}
		}
	}
	summary.EntriesInConflict = len(conflicted)
	return summary
}

func validateVersionID(id string, vErr *ValidationError) string {
	id = strings.TrimSpace(id)
	if id == "" {
		vErr.add("version_id", "version_id is required")
	}
	return id
}

// parseKinds returns the requested kinds in canonical order without duplicates.
// An empty request selects every kind.
func parseKinds(raw []string, vErr *ValidationError) []scheduler.Kind {
	selected := make(map[scheduler.Kind]struct{})
	for _, value := range raw {
		if strings.TrimSpace(value) == "" {
			continue
		}
		kind, err := scheduler.ParseKind(value)
		if err != nil {
			vErr.add("kind", fmt.Sprintf("unknown kind %q", value))
			continue
		}
		selected[kind] = struct{}{}
	}

	if len(selected) == 0 {
		return append([]scheduler.Kind(nil), scheduler.AllKinds...)
	}
	kinds := make([]scheduler.Kind, 0, len(selected))
	for _, kind := range scheduler.AllKinds {
		if _, ok := selected[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
