package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/schedule-conflicts/internal/persistence"
)

// ScheduleVersionRepository implements persistence.ScheduleVersionRepository using SQLite
type ScheduleVersionRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewScheduleVersionRepository creates a new SQLite schedule version repository
func NewScheduleVersionRepository(pool *ConnectionPool) *ScheduleVersionRepository {
	return newScheduleVersionRepository(pool.DB())
}

func newScheduleVersionRepository(q querier) *ScheduleVersionRepository {
	return &ScheduleVersionRepository{
		helper: NewQueryHelper(q),
		mapper: NewErrorMapper(),
	}
}

// CreateVersion inserts a new schedule version
func (r *ScheduleVersionRepository) CreateVersion(ctx context.Context, version persistence.ScheduleVersion) error {
	if strings.TrimSpace(version.ID) == "" || strings.TrimSpace(version.DepartmentID) == "" || strings.TrimSpace(version.Name) == "" {
		return fmt.Errorf("%w: schedule version requires id, department and name", persistence.ErrConstraintViolation)
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO schedule_versions (id, department_id, name, term, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		version.ID,
		version.DepartmentID,
		version.Name,
		version.Term,
		version.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetVersion retrieves a schedule version by ID
func (r *ScheduleVersionRepository) GetVersion(ctx context.Context, id string) (persistence.ScheduleVersion, error) {
	if id == "" {
		return persistence.ScheduleVersion{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, department_id, name, term, created_at
		FROM schedule_versions
		WHERE id = ?
	`

	var (
		version      persistence.ScheduleVersion
		createdAtStr string
	)
	err := r.helper.QueryRow(ctx, query, id).Scan(
		&version.ID,
		&version.DepartmentID,
		&version.Name,
		&version.Term,
		&createdAtStr,
	)
	if err != nil {
		return persistence.ScheduleVersion{}, r.mapper.MapError(err)
	}

	if version.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.ScheduleVersion{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return version, nil
}

// ListVersions returns all schedule versions, newest first
func (r *ScheduleVersionRepository) ListVersions(ctx context.Context) ([]persistence.ScheduleVersion, error) {
	query := `
		SELECT id, department_id, name, term, created_at
		FROM schedule_versions
		ORDER BY created_at DESC, id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []persistence.ScheduleVersion
	for rows.Next() {
		var (
			version      persistence.ScheduleVersion
			createdAtStr string
		)
		if err := rows.Scan(&version.ID, &version.DepartmentID, &version.Name, &version.Term, &createdAtStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if version.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", version.ID, err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return versions, nil
}
