package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"escrowfund/internal/escrow"
)

// ProjectRepository persists the single project record as one JSONB row,
// mirroring the instance-storage model of the host platform: the whole
// record is read, mutated, and written back on every operation.
type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Exists reports whether the project record has been created.
func (r *ProjectRepository) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM escrow_project WHERE id = 1)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project existence: %w", err)
	}
	return exists, nil
}

// Load returns the project record, or escrow.ErrProjectNotInitialized when
// it was never created.
func (r *ProjectRepository) Load(ctx context.Context) (*escrow.Project, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM escrow_project WHERE id = 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, escrow.ErrProjectNotInitialized
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	var project escrow.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to decode project record: %w", err)
	}
	return &project, nil
}

// Save writes the whole project record back.
func (r *ProjectRepository) Save(ctx context.Context, p *escrow.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project record: %w", err)
	}

	query := `
		INSERT INTO escrow_project (id, data, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, data); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// ExtendRetention pushes the record's retention window further out, in
// time-index units.
func (r *ProjectRepository) ExtendRetention(ctx context.Context, extendBy uint64) error {
	query := `
		UPDATE escrow_project
		SET retain_until = COALESCE(retain_until, 0) + $1
		WHERE id = 1
	`
	if _, err := r.db.Exec(ctx, query, int64(extendBy)); err != nil {
		return fmt.Errorf("failed to extend retention: %w", err)
	}
	return nil
}
