package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/schedule-conflicts/internal/persistence"
)

// ClassRepository implements persistence.ClassRepository using SQLite
type ClassRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewClassRepository creates a new SQLite class repository
func NewClassRepository(pool *ConnectionPool) *ClassRepository {
	return newClassRepository(pool.DB())
}

func newClassRepository(q querier) *ClassRepository {
	return &ClassRepository{
		helper: NewQueryHelper(q),
		mapper: NewErrorMapper(),
	}
}

// UpsertClass inserts a class or replaces the stored copy with the same ID
func (r *ClassRepository) UpsertClass(ctx context.Context, class persistence.Class) error {
	if strings.TrimSpace(class.ID) == "" || strings.TrimSpace(class.VersionID) == "" {
		return fmt.Errorf("%w: class requires id and version", persistence.ErrConstraintViolation)
	}

	query := `
		INSERT INTO classes (id, version_id, subject_id, section_id, faculty_user_id, class_code, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version_id = excluded.version_id,
			subject_id = excluded.subject_id,
			section_id = excluded.section_id,
			faculty_user_id = excluded.faculty_user_id,
			class_code = excluded.class_code,
			status = excluded.status
	`

	_, err := r.helper.Exec(ctx, query,
		class.ID,
		class.VersionID,
		class.SubjectID,
		nullString(class.SectionID),
		nullString(class.FacultyUserID),
		class.ClassCode,
		class.Status,
	)
	return err
}

// ListClassesByVersion returns the classes of a schedule version ordered by ID
func (r *ClassRepository) ListClassesByVersion(ctx context.Context, versionID string) ([]persistence.Class, error) {
	query := `
		SELECT id, version_id, subject_id, section_id, faculty_user_id, class_code, status
		FROM classes
		WHERE version_id = ?
		ORDER BY id ASC
	`

	rows, err := r.helper.Query(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []persistence.Class
	for rows.Next() {
		var (
			class            persistence.Class
			section, faculty sql.NullString
		)
		if err := rows.Scan(&class.ID, &class.VersionID, &class.SubjectID, &section, &faculty, &class.ClassCode, &class.Status); err != nil {
			return nil, r.mapper.MapError(err)
		}
		class.SectionID = stringPtr(section)
		class.FacultyUserID = stringPtr(faculty)
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return classes, nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
