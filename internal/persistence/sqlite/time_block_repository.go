package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/schedule-conflicts/internal/persistence"
)

// TimeBlockRepository implements persistence.TimeBlockRepository using SQLite
type TimeBlockRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTimeBlockRepository creates a new SQLite time block repository
func NewTimeBlockRepository(pool *ConnectionPool) *TimeBlockRepository {
	return newTimeBlockRepository(pool.DB())
}

func newTimeBlockRepository(q querier) *TimeBlockRepository {
	return &TimeBlockRepository{
		helper: NewQueryHelper(q),
		mapper: NewErrorMapper(),
	}
}

// UpsertTimeBlock inserts a time block or replaces the stored copy with the same ID
func (r *TimeBlockRepository) UpsertTimeBlock(ctx context.Context, block persistence.TimeBlock) error {
	if strings.TrimSpace(block.ID) == "" || strings.TrimSpace(block.DepartmentID) == "" {
		return fmt.Errorf("%w: time block requires id and department", persistence.ErrConstraintViolation)
	}

	query := `
		INSERT INTO time_blocks (id, department_id, start_time, end_time, label)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			department_id = excluded.department_id,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			label = excluded.label
	`

	_, err := r.helper.Exec(ctx, query, block.ID, block.DepartmentID, block.Start, block.End, block.Label)
	return err
}

// ListTimeBlocksByDepartment returns a department's time blocks ordered by start time
func (r *TimeBlockRepository) ListTimeBlocksByDepartment(ctx context.Context, departmentID string) ([]persistence.TimeBlock, error) {
	query := `
		SELECT id, department_id, start_time, end_time, label
		FROM time_blocks
		WHERE department_id = ?
		ORDER BY start_time ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []persistence.TimeBlock
	for rows.Next() {
		var block persistence.TimeBlock
		if err := rows.Scan(&block.ID, &block.DepartmentID, &block.Start, &block.End, &block.Label); err != nil {
			return nil, r.mapper.MapError(err)
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return blocks, nil
}
