package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/schedule-conflicts/internal/persistence"
)

// MeetingRepository implements persistence.MeetingRepository using SQLite
type MeetingRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewMeetingRepository creates a new SQLite meeting repository
func NewMeetingRepository(pool *ConnectionPool) *MeetingRepository {
	return newMeetingRepository(pool.DB())
}

func newMeetingRepository(q querier) *MeetingRepository {
	return &MeetingRepository{
		helper: NewQueryHelper(q),
		mapper: NewErrorMapper(),
	}
}

// UpsertMeeting inserts a meeting or replaces the stored copy with the same ID.
// Day and time text is stored verbatim.
func (r *MeetingRepository) UpsertMeeting(ctx context.Context, meeting persistence.Meeting) error {
	if strings.TrimSpace(meeting.ID) == "" || strings.TrimSpace(meeting.VersionID) == "" {
		return fmt.Errorf("%w: meeting requires id and version", persistence.ErrConstraintViolation)
	}

	query := `
		INSERT INTO meetings (id, version_id, class_id, day_of_week, start_time, end_time, room_id, meeting_type, notes, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version_id = excluded.version_id,
			class_id = excluded.class_id,
			day_of_week = excluded.day_of_week,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			room_id = excluded.room_id,
			meeting_type = excluded.meeting_type,
			notes = excluded.notes,
			sort_order = excluded.sort_order
	`

	_, err := r.helper.Exec(ctx, query,
		meeting.ID,
		meeting.VersionID,
		meeting.ClassID,
		meeting.DayOfWeek,
		meeting.StartTime,
		meeting.EndTime,
		nullString(meeting.RoomID),
		meeting.MeetingType,
		meeting.Notes,
		meeting.SortOrder,
	)
	return err
}

// ListMeetingsByVersion returns the meetings of a schedule version ordered by
// sort order, then ID
func (r *MeetingRepository) ListMeetingsByVersion(ctx context.Context, versionID string) ([]persistence.Meeting, error) {
	query := `
		SELECT id, version_id, class_id, day_of_week, start_time, end_time, room_id, meeting_type, notes, sort_order
		FROM meetings
		WHERE version_id = ?
		ORDER BY sort_order ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []persistence.Meeting
	for rows.Next() {
		var (
			meeting persistence.Meeting
			room    sql.NullString
		)
		if err := rows.Scan(
			&meeting.ID,
			&meeting.VersionID,
			&meeting.ClassID,
			&meeting.DayOfWeek,
			&meeting.StartTime,
			&meeting.EndTime,
			&room,
			&meeting.MeetingType,
			&meeting.Notes,
			&meeting.SortOrder,
		); err != nil {
			return nil, r.mapper.MapError(err)
		}
		meeting.RoomID = stringPtr(room)
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return meetings, nil
}
