package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/example/schedule-conflicts/internal/application"
	"github.com/example/schedule-conflicts/internal/scheduler"
)

type conflictService interface {
	ListVersions(ctx context.Context) ([]application.ScheduleVersion, error)
	DetectConflicts(ctx context.Context, params application.DetectParams) (application.ConflictReport, error)
	ProjectGrid(ctx context.Context, params application.GridParams) (application.GridView, error)
}

type ConflictHandler struct {
	service   conflictService
	responder responder
}

func NewConflictHandler(service conflictService, logger *slog.Logger) *ConflictHandler {
	return &ConflictHandler{service: service, responder: newResponder(logger)}
}

func (h *ConflictHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	versions, err := h.service.ListVersions(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listVersionsResponse{Versions: toVersionDTOs(versions)})
}

func (h *ConflictHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	versionID, ok := VersionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(versionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidVersionID)
		return
	}

	report, err := h.service.DetectConflicts(r.Context(), application.DetectParams{
		VersionID: versionID,
		Kinds:     parseKinds(r.URL.Query()),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.loggerFor(r.Context()).DebugContext(r.Context(), "rendering report", "clusters", len(report.Clusters))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toConflictReportDTO(report))
}

func (h *ConflictHandler) Grid(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	versionID, ok := VersionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(versionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidVersionID)
		return
	}

	query := r.URL.Query()
	view, err := h.service.ProjectGrid(r.Context(), application.GridParams{
		VersionID:  versionID,
		Kind:       strings.TrimSpace(query.Get("kind")),
		ResourceID: strings.TrimSpace(query.Get("resource_id")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGridDTO(view))
}

// parseKinds accepts both ?kinds=a,b and repeated ?kind=a&kind=b.
func parseKinds(values url.Values) []string {
	var kinds []string
	for _, raw := range values["kinds"] {
		kinds = append(kinds, parseCSV(raw)...)
	}
	for _, raw := range values["kind"] {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			kinds = append(kinds, trimmed)
		}
	}
	return kinds
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

type listVersionsResponse struct {
	Versions []versionDTO `json:"versions"`
}

type versionDTO struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Term         string `json:"term,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toVersionDTO(version application.ScheduleVersion) versionDTO {
	return versionDTO{
		ID:           version.ID,
		DepartmentID: version.DepartmentID,
		Name:         version.Name,
		Term:         version.Term,
		CreatedAt:    version.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toVersionDTOs(versions []application.ScheduleVersion) []versionDTO {
	out := make([]versionDTO, 0, len(versions))
	for _, version := range versions {
		out = append(out, toVersionDTO(version))
	}
	return out
}

type entryDTO struct {
	MeetingID     string  `json:"meeting_id"`
	ClassID       string  `json:"class_id"`
	ClassCode     string  `json:"class_code,omitempty"`
	SubjectID     string  `json:"subject_id,omitempty"`
	Day           string  `json:"day"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	RoomID        *string `json:"room_id,omitempty"`
	FacultyUserID *string `json:"faculty_user_id,omitempty"`
	SectionID     *string `json:"section_id,omitempty"`
	MeetingType   string  `json:"meeting_type,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	ClassStatus   string  `json:"class_status,omitempty"`
	Conflict      bool    `json:"conflict,omitempty"`
}

func toEntryDTO(entry scheduler.ScheduleEntry) entryDTO {
	return entryDTO{
		MeetingID:     entry.MeetingID,
		ClassID:       entry.ClassID,
		ClassCode:     entry.ClassCode,
		SubjectID:     entry.SubjectID,
		Day:           string(entry.Day),
		Start:         scheduler.FormatMinute(entry.StartMinute),
		End:           scheduler.FormatMinute(entry.EndMinute),
		RoomID:        entry.RoomID,
		FacultyUserID: entry.FacultyUserID,
		SectionID:     entry.SectionID,
		MeetingType:   entry.MeetingType,
		Notes:         entry.Notes,
		ClassStatus:   entry.ClassStatus,
	}
}

func toEntryDTOs(entries []scheduler.ScheduleEntry, flagged func(string) bool) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, entry := range entries {
		dto := toEntryDTO(entry)
		if flagged != nil {
			dto.Conflict = flagged(entry.MeetingID)
		}
		out = append(out, dto)
	}
	return out
}

type clusterDTO struct {
	Kind          string     `json:"kind"`
	ResourceID    string     `json:"resource_id"`
	ResourceLabel string     `json:"resource_label"`
	Day           string     `json:"day"`
	WindowStart   string     `json:"window_start"`
	WindowEnd     string     `json:"window_end"`
	Size          int        `json:"size"`
	Entries       []entryDTO `json:"entries"`
}

type summaryDTO struct {
	ClustersByKind    map[string]int `json:"clusters_by_kind"`
	EntriesAnalysed   int            `json:"entries_analysed"`
	EntriesInConflict int            `json:"entries_in_conflict"`
	Dropped           map[string]int `json:"dropped,omitempty"`
}

type conflictReportDTO struct {
	Version     versionDTO   `json:"version"`
	Kinds       []string     `json:"kinds"`
	Clusters    []clusterDTO `json:"clusters"`
	Summary     summaryDTO   `json:"summary"`
	GeneratedAt string       `json:"generated_at"`
}

func toConflictReportDTO(report application.ConflictReport) conflictReportDTO {
	kinds := make([]string, 0, len(report.Kinds))
	for _, kind := range report.Kinds {
		kinds = append(kinds, string(kind))
	}

	clusters := make([]clusterDTO, 0, len(report.Clusters))
	for _, c := range report.Clusters {
		clusters = append(clusters, clusterDTO{
			Kind:          string(c.Kind),
			ResourceID:    c.ResourceID,
			ResourceLabel: c.ResourceLabel,
			Day:           string(c.Day),
			WindowStart:   scheduler.FormatMinute(c.WindowStart),
			WindowEnd:     scheduler.FormatMinute(c.WindowEnd),
			Size:          len(c.Entries),
			Entries:       toEntryDTOs(c.Entries, nil),
		})
	}

	byKind := make(map[string]int, len(report.Summary.ClustersByKind))
	for kind, count := range report.Summary.ClustersByKind {
		byKind[string(kind)] = count
	}

	return conflictReportDTO{
		Version:  toVersionDTO(report.Version),
		Kinds:    kinds,
		Clusters: clusters,
		Summary: summaryDTO{
			ClustersByKind:    byKind,
			EntriesAnalysed:   report.Summary.EntriesAnalysed,
			EntriesInConflict: report.Summary.EntriesInConflict,
			Dropped:           droppedDTO(report.Summary.Ingest),
		},
		GeneratedAt: report.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func droppedDTO(stats scheduler.IngestStats) map[string]int {
	if stats.DroppedTotal() == 0 {
		return nil
	}
	out := make(map[string]int, len(stats.Dropped))
	for reason, count := range stats.Dropped {
		out[string(reason)] = count
	}
	return out
}

type slotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type cellDTO struct {
	Day     string     `json:"day"`
	Slot    int        `json:"slot"`
	Entries []entryDTO `json:"entries"`
}

type pairDTO struct {
	Day    string `json:"day"`
	First  string `json:"first"`
	Second string `json:"second"`
}

type gridDTO struct {
	Version       versionDTO     `json:"version"`
	Kind          string         `json:"kind"`
	ResourceID    string         `json:"resource_id"`
	ResourceLabel string         `json:"resource_label"`
	SlotSource    string         `json:"slot_source"`
	Days          []string       `json:"days"`
	Slots         []slotDTO      `json:"slots"`
	Cells         []cellDTO      `json:"cells"`
	Unplaced      []entryDTO     `json:"unplaced"`
	Conflicts     []string       `json:"conflicts"`
	Pairs         []pairDTO      `json:"pairs"`
	Dropped       map[string]int `json:"dropped,omitempty"`
	GeneratedAt   string         `json:"generated_at"`
}

// toGridDTO lists only occupied cells, in day then slot order.
func toGridDTO(view application.GridView) gridDTO {
	grid := view.Grid

	days := make([]string, 0, len(grid.Days))
	for _, day := range grid.Days {
		days = append(days, string(day))
	}
	slots := make([]slotDTO, 0, len(grid.Slots))
	for _, slot := range grid.Slots {
		slots = append(slots, slotDTO{Start: scheduler.FormatMinute(slot.Start), End: scheduler.FormatMinute(slot.End)})
	}

	cells := make([]cellDTO, 0)
	for _, row := range grid.Cells {
		for i, cell := range row {
			if len(cell.Entries) == 0 {
				continue
			}
			cells = append(cells, cellDTO{
				Day:     string(cell.Day),
				Slot:    i,
				Entries: toEntryDTOs(cell.Entries, grid.HasConflict),
			})
		}
	}

	conflicts := make([]string, 0, len(grid.Conflicts))
	for id := range grid.Conflicts {
		conflicts = append(conflicts, id)
	}
	sort.Strings(conflicts)

	pairs := make([]pairDTO, 0, len(grid.Pairs))
	for _, pair := range grid.Pairs {
		pairs = append(pairs, pairDTO{Day: string(pair.Day), First: pair.First, Second: pair.Second})
	}

	return gridDTO{
		Version:       toVersionDTO(view.Version),
		Kind:          string(grid.Kind),
		ResourceID:    grid.ResourceID,
		ResourceLabel: view.ResourceLabel,
		SlotSource:    string(view.SlotSource),
		Days:          days,
		Slots:         slots,
		Cells:         cells,
		Unplaced:      toEntryDTOs(grid.Unplaced, grid.HasConflict),
		Conflicts:     conflicts,
		Pairs:         pairs,
		Dropped:       droppedDTO(view.Ingest),
		GeneratedAt:   view.GeneratedAt.UTC().Format(time.RFC3339),
	}
}
