package favorites

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/espm/internal/client/models"
	"github.com/dmitrijs2005/espm/internal/dbx"
)

// SQLiteRepository stores each favorite as a JSON snapshot of the concurso,
// so the list can be shown without reaching the selection API.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add stores c, replacing an earlier snapshot with the same id.
func (r *SQLiteRepository) Add(ctx context.Context, c models.Concurso) error {
	c.Favorito = true
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode favorite[%d]: %w", c.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO favorites (concurso_id, payload) VALUES (?, ?)
		ON CONFLICT(concurso_id) DO UPDATE SET payload = excluded.payload
	`, c.ID, payload)
	if err != nil {
		return fmt.Errorf("failed to add favorite[%d]: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE concurso_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove favorite[%d]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, id int) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites WHERE concurso_id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite[%d]: %w", id, err)
	}
	return n > 0, nil
}

// List returns favorites in the order they were added.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Concurso, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM favorites ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	result := make([]models.Concurso, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		var c models.Concurso
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, fmt.Errorf("failed to decode favorite: %w", err)
		}
		result = append(result, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorite rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) IDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT concurso_id FROM favorites ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorite ids: %w", err)
	}

	return ids, nil
}

var _ Repository = (*SQLiteRepository)(nil)
