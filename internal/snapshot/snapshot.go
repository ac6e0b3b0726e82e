// Package snapshot reads timetable snapshots from YAML or JSON files and
// imports them into the persistence layer.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is one schedule version with everything needed to analyse it.
type Snapshot struct {
	Version    Version              `yaml:"version" json:"version"`
	Classes    []Class              `yaml:"classes" json:"classes"`
	Meetings   []Meeting            `yaml:"meetings" json:"meetings"`
	Directory  map[string]Directory `yaml:"directory" json:"directory"`
	TimeBlocks []TimeBlock          `yaml:"time_blocks" json:"time_blocks"`
}

// Directory maps resource ids of one kind to display labels.
type Directory map[string]string

type Version struct {
	ID           string `yaml:"id" json:"id"`
	DepartmentID string `yaml:"department_id" json:"department_id"`
	Name         string `yaml:"name" json:"name"`
	Term         string `yaml:"term" json:"term"`
}

type Class struct {
	ID            string  `yaml:"id" json:"id"`
	SubjectID     string  `yaml:"subject_id" json:"subject_id"`
	SectionID     *string `yaml:"section_id" json:"section_id"`
	FacultyUserID *string `yaml:"faculty_user_id" json:"faculty_user_id"`
	ClassCode     string  `yaml:"class_code" json:"class_code"`
	Status        string  `yaml:"status" json:"status"`
}

// Meeting keeps day and times as raw text; they are validated at analysis time.
type Meeting struct {
	ID          string  `yaml:"id" json:"id"`
	ClassID     string  `yaml:"class_id" json:"class_id"`
	DayOfWeek   string  `yaml:"day_of_week" json:"day_of_week"`
	StartTime   string  `yaml:"start_time" json:"start_time"`
	EndTime     string  `yaml:"end_time" json:"end_time"`
	RoomID      *string `yaml:"room_id" json:"room_id"`
	MeetingType string  `yaml:"meeting_type" json:"meeting_type"`
	Notes       string  `yaml:"notes" json:"notes"`
}

type TimeBlock struct {
	ID    string `yaml:"id" json:"id"`
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
	Label string `yaml:"label" json:"label"`
}

// Load reads a snapshot file. The format is chosen by extension.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return Parse(data, FormatYAML)
	case ".json":
		return Parse(data, FormatJSON)
	default:
		return Snapshot{}, fmt.Errorf("unsupported snapshot format: %s", ext)
	}
}

// Format names a snapshot encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Parse decodes a snapshot. Unknown fields are rejected.
func Parse(data []byte, format Format) (Snapshot, error) {
	var snap Snapshot
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&snap); err != nil {
			return Snapshot{}, fmt.Errorf("decode yaml snapshot: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&snap); err != nil {
			return Snapshot{}, fmt.Errorf("decode json snapshot: %w", err)
		}
	default:
		return Snapshot{}, fmt.Errorf("unsupported snapshot format: %s", format)
	}
	return snap, nil
}
