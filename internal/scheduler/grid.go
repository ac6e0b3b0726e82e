package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidTimeSlots indicates a custom slot list cannot be used for a grid.
var ErrInvalidTimeSlots = errors.New("scheduler: invalid time slots")

// GridDays are the columns of a grid. Sunday is intentionally not shown.
var GridDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// TimeSlot is a half-open [Start, End) row of a grid, in minutes.
type TimeSlot struct {
	Start int
	End   int
}

// Contains reports whether minute falls inside the slot.
func (s TimeSlot) Contains(minute int) bool {
	return minute >= s.Start && minute < s.End
}

// String renders the slot as "HH:MM-HH:MM".
func (s TimeSlot) String() string {
	return FormatMinute(s.Start) + "-" + FormatMinute(s.End)
}

// DefaultTimeSlots returns hourly slots from 07:00 to 20:00.
func DefaultTimeSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, 13)
	for hour := 7; hour < 20; hour++ {
		slots = append(slots, TimeSlot{Start: hour * 60, End: (hour + 1) * 60})
	}
	return slots
}

// ValidateTimeSlots rejects empty, inverted, out-of-range, unsorted, or
// overlapping slot lists.
func ValidateTimeSlots(slots []TimeSlot) error {
	if len(slots) == 0 {
		return fmt.Errorf("%w: no slots configured", ErrInvalidTimeSlots)
	}
	for i, slot := range slots {
		if slot.Start < 0 || slot.End > MinutesPerDay {
			return fmt.Errorf("%w: slot %d (%d-%d) is out of range", ErrInvalidTimeSlots, i, slot.Start, slot.End)
		}
		if slot.Start >= slot.End {
			return fmt.Errorf("%w: slot %d (%s) must end after it starts", ErrInvalidTimeSlots, i, slot)
		}
		if i > 0 && slot.Start < slots[i-1].End {
			return fmt.Errorf("%w: slot %d (%s) is not after slot %d (%s)", ErrInvalidTimeSlots, i, slot, i-1, slots[i-1])
		}
	}
	return nil
}

// ParseTimeSlot builds a slot from HH:MM bounds.
func ParseTimeSlot(start, end string) (TimeSlot, error) {
	s, err := ParseTime(start)
	if err != nil {
		return TimeSlot{}, err
	}
	e, err := ParseTime(end)
	if err != nil {
		return TimeSlot{}, err
	}
	return TimeSlot{Start: s, End: e}, nil
}

// GridCell is one (day, slot) position on the grid.
type GridCell struct {
	Day     Day
	Slot    TimeSlot
	Entries []ScheduleEntry
}

// OverlapPair names two meetings of the same resource that overlap.
type OverlapPair struct {
	Day    Day
	First  string
	Second string
}

// Grid is the single-resource day x slot view.
type Grid struct {
	Kind       Kind
	ResourceID string
	Days       []Day
	Slots      []TimeSlot
	// Cells is indexed [day][slot] following Days and Slots.
	Cells    [][]GridCell
	Unplaced []ScheduleEntry
	// Conflicts holds the meeting ids that overlap another meeting of the
	// resource on the same day.
	Conflicts map[string]struct{}
	Pairs     []OverlapPair
}

// HasConflict reports whether the meeting is flagged as overlapping.
func (g Grid) HasConflict(meetingID string) bool {
	_, ok := g.Conflicts[meetingID]
	return ok
}

// Cell returns the cell for day and slot index.
func (g Grid) Cell(day Day, slot int) (GridCell, bool) {
	for i, d := range g.Days {
		if d != day {
			continue
		}
		if slot < 0 || slot >= len(g.Cells[i]) {
			return GridCell{}, false
		}
		return g.Cells[i][slot], true
	}
	return GridCell{}, false
}

// ProjectGrid places the entries of one resource onto the grid by start time
// and flags overlaps using the same clusters Detect produces.
func ProjectGrid(entries []ScheduleEntry, kind Kind, resourceID string, slots []TimeSlot) (Grid, error) {
	if err := ValidateTimeSlots(slots); err != nil {
		return Grid{}, err
	}
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return Grid{}, fmt.Errorf("scheduler: grid requires a resource id")
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return Grid{}, err
	}

	owned := make([]ScheduleEntry, 0)
	for _, entry := range entries {
		if KeyOf(entry, kind) == resourceID {
			owned = append(owned, entry)
		}
	}
	sortEntries(owned)

	grid := Grid{
		Kind:       kind,
		ResourceID: resourceID,
		Days:       append([]Day(nil), GridDays...),
		Slots:      append([]TimeSlot(nil), slots...),
		Conflicts:  make(map[string]struct{}),
	}
	grid.Cells = make([][]GridCell, len(grid.Days))
	column := make(map[Day]int, len(grid.Days))
	for i, day := range grid.Days {
		column[day] = i
		row := make([]GridCell, len(grid.Slots))
		for j, slot := range grid.Slots {
			row[j] = GridCell{Day: day, Slot: slot}
		}
		grid.Cells[i] = row
	}

	for _, entry := range owned {
		col, ok := column[entry.Day]
		if !ok {
			grid.Unplaced = append(grid.Unplaced, entry)
			continue
		}
		idx := slotIndex(grid.Slots, entry.StartMinute)
		if idx < 0 {
			grid.Unplaced = append(grid.Unplaced, entry)
			continue
		}
		grid.Cells[col][idx].Entries = append(grid.Cells[col][idx].Entries, entry)
	}

	for _, cluster := range Detect(owned, kind, nil) {
		for _, entry := range cluster.Entries {
			grid.Conflicts[entry.MeetingID] = struct{}{}
		}
		grid.Pairs = append(grid.Pairs, clusterPairs(cluster)...)
	}

	return grid, nil
}

// clusterPairs lists pairwise overlaps inside a start-sorted cluster. The
// inner scan stops once a later entry starts at or after the current end.
func clusterPairs(cluster ConflictCluster) []OverlapPair {
	var pairs []OverlapPair
	members := cluster.Entries
	for i, current := range members {
		for _, other := range members[i+1:] {
			if other.StartMinute >= current.EndMinute {
				break
			}
			if Overlaps(current, other) {
				pairs = append(pairs, OverlapPair{Day: cluster.Day, First: current.MeetingID, Second: other.MeetingID})
			}
		}
	}
	return pairs
}

func slotIndex(slots []TimeSlot, minute int) int {
	idx := sort.Search(len(slots), func(i int) bool {
		return slots[i].End > minute
	})
	if idx < len(slots) && slots[idx].Contains(minute) {
		return idx
	}
	return -1
}
