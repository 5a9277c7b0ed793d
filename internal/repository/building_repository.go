package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/exam-seating/internal/model"
)

// BuildingRepo provides CRUD access to the buildings table.
type BuildingRepo struct {
	db *sql.DB
}

// NewBuildingRepo constructs a BuildingRepo with the given DB handle.
func NewBuildingRepo(db *sql.DB) *BuildingRepo { return &BuildingRepo{db: db} }

// Create inserts a building. On success the ID is populated.
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	const q = `INSERT INTO buildings (name, code) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Code)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches one building.
func (r *BuildingRepo) GetByID(ctx context.Context, id uint64) (model.Building, error) {
	const q = `SELECT id, name, code, created_at, updated_at FROM buildings WHERE id = ?`
	var b model.Building
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Name, &b.Code, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return b, ErrBuildingNotFound
	}
	return b, err
}

// List returns all buildings ordered by code.
func (r *BuildingRepo) List(ctx context.Context) ([]model.Building, error) {
	const q = `SELECT id, name, code, created_at, updated_at FROM buildings ORDER BY code ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Building
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.Name, &b.Code, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update renames a building and/or changes its code.
func (r *BuildingRepo) Update(ctx context.Context, b model.Building) error {
	const q = `UPDATE buildings SET name = ?, code = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Code, b.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBuildingNotFound
	}
	return nil
}

// Delete removes a building. Buildings that still contain rooms
// cannot be deleted and yield ErrConflict.
func (r *BuildingRepo) Delete(ctx context.Context, id uint64) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rooms WHERE building_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM buildings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBuildingNotFound
	}
	return nil
}
