package application

import (
	"time"

	"github.com/example/schedule-conflicts/internal/scheduler"
)

// ScheduleVersion identifies the timetable draft being analysed.
type ScheduleVersion struct {
	ID           string
	DepartmentID string
	Name         string
	Term         string
	CreatedAt    time.Time
}

// TimeBlock is a department teaching period as stored, in HH:MM text.
type TimeBlock struct {
	ID    string
	Start string
	End   string
	Label string
}

// DetectParams selects the version and resource kinds to analyse.
// An empty Kinds list analyses every kind.
type DetectParams struct {
	VersionID string
	Kinds     []string
}

// GridParams selects the single resource to project onto the weekly grid.
type GridParams struct {
	VersionID  string
	Kind       string
	ResourceID string
}

// ConflictSummary aggregates a detection run.
type ConflictSummary struct {
	ClustersByKind    map[scheduler.Kind]int
	EntriesAnalysed   int
	EntriesInConflict int
	Ingest            scheduler.IngestStats
}

// ConflictReport is the ranked result of a detection run.
type ConflictReport struct {
	Version     ScheduleVersion
	Kinds       []scheduler.Kind
	Clusters    []scheduler.ConflictCluster
	Summary     ConflictSummary
	GeneratedAt time.Time
}

// SlotSource records where the grid rows came from.
type SlotSource string

const (
	SlotSourceConfig     SlotSource = "config"
	SlotSourceDepartment SlotSource = "department"
	SlotSourceDefault    SlotSource = "default"
)

// GridView is a projected grid together with the context a viewer needs.
type GridView struct {
	Version       ScheduleVersion
	ResourceLabel string
	SlotSource    SlotSource
	Grid          scheduler.Grid
	Ingest        scheduler.IngestStats
	GeneratedAt   time.Time
}
