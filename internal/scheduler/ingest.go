package scheduler

// DropReason labels why a raw meeting did not become a ScheduleEntry.
type DropReason string

const (
	// DropOrphan marks meetings whose class record is missing.
	DropOrphan DropReason = "orphan"
	// DropInvalidTime marks meetings with an unparseable start or end time.
	DropInvalidTime DropReason = "invalid_time"
	// DropNonPositiveDuration marks meetings whose end is not after their start.
	DropNonPositiveDuration DropReason = "non_positive_duration"
)

// IngestStats summarises an Ingest run. Drops are reported here for
// observability only; they are never errors.
type IngestStats struct {
	Accepted int
	Dropped  map[DropReason]int
}

// DroppedTotal returns the number of meetings excluded for any reason.
func (s IngestStats) DroppedTotal() int {
	total := 0
	for _, count := range s.Dropped {
		total += count
	}
	return total
}

func (s *IngestStats) drop(reason DropReason) {
	if s.Dropped == nil {
		s.Dropped = make(map[DropReason]int)
	}
	s.Dropped[reason]++
}

// Ingest joins meetings to their classes and returns validated entries in
// input meeting order. Orphaned meetings, unparseable times, and non-positive
// durations are skipped silently.
func Ingest(meetings []Meeting, classes []Class) ([]ScheduleEntry, IngestStats) {
	var stats IngestStats
	if len(meetings) == 0 {
		return nil, stats
	}

	byID := make(map[string]Class, len(classes))
	for _, class := range classes {
		if class.ID == "" {
			continue
		}
		byID[class.ID] = class
	}

	entries := make([]ScheduleEntry, 0, len(meetings))
	for _, meeting := range meetings {
		class, ok := byID[meeting.ClassID]
		if !ok || meeting.ClassID == "" {
			stats.drop(DropOrphan)
			continue
		}

		start, err := ParseTime(meeting.StartTime)
		if err != nil {
			stats.drop(DropInvalidTime)
			continue
		}
		end, err := ParseTime(meeting.EndTime)
		if err != nil {
			stats.drop(DropInvalidTime)
			continue
		}
		if end <= start {
			stats.drop(DropNonPositiveDuration)
			continue
		}

		entries = append(entries, ScheduleEntry{
			MeetingID:     meeting.ID,
			ClassID:       meeting.ClassID,
			Day:           NormalizeDay(meeting.DayOfWeek),
			StartMinute:   start,
			EndMinute:     end,
			RoomID:        optionalID(meeting.RoomID),
			FacultyUserID: optionalID(class.FacultyUserID),
			SectionID:     optionalID(class.SectionID),
			SubjectID:     class.SubjectID,
			ClassCode:     class.ClassCode,
			MeetingType:   meeting.MeetingType,
			Notes:         meeting.Notes,
			ClassStatus:   class.Status,
		})
	}

	stats.Accepted = len(entries)
	if len(entries) == 0 {
		return nil, stats
	}
	return entries, stats
}
