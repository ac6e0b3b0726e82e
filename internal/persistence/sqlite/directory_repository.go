package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/schedule-conflicts/internal/persistence"
)

// DirectoryRepository implements persistence.DirectoryRepository using SQLite
type DirectoryRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewDirectoryRepository creates a new SQLite directory repository
func NewDirectoryRepository(pool *ConnectionPool) *DirectoryRepository {
	return newDirectoryRepository(pool.DB())
}

func newDirectoryRepository(q querier) *DirectoryRepository {
	return &DirectoryRepository{
		helper: NewQueryHelper(q),
		mapper: NewErrorMapper(),
	}
}

// UpsertEntry stores the display label of a resource
func (r *DirectoryRepository) UpsertEntry(ctx context.Context, entry persistence.DirectoryEntry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return fmt.Errorf("%w: directory entry requires id", persistence.ErrConstraintViolation)
	}

	query := `
		INSERT INTO directory_entries (kind, id, label)
		VALUES (?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET label = excluded.label
	`

	_, err := r.helper.Exec(ctx, query, entry.Kind, entry.ID, entry.Label)
	return err
}

// ListLabels returns the id-to-label map for one resource kind
func (r *DirectoryRepository) ListLabels(ctx context.Context, kind string) (map[string]string, error) {
	rows, err := r.helper.Query(ctx, `SELECT id, label FROM directory_entries WHERE kind = ?`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make(map[string]string)
	for rows.Next() {
		var id, label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, r.mapper.MapError(err)
		}
		labels[id] = label
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return labels, nil
}
