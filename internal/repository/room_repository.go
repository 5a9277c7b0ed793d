package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/exam-seating/internal/model"
)

// RoomRepo provides data access for exam rooms.  The two List
// variants implement the allocator's room selection modes: ListByIDs
// for an explicit room set, ListActive for building-filtered
// selection.  Both order by room number so generation runs are
// deterministic for the same catalog state.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, building_id, room_number, capacity, is_active, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.BuildingID, &rm.RoomNumber, &rm.Capacity, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	return rm, err
}

// Create inserts a room. On success the ID is populated.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (building_id, room_number, capacity, is_active) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.BuildingID, rm.RoomNumber, rm.Capacity, rm.IsActive)
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
	rm.ID = uint64(id)
	return nil
}

// GetByID fetches one room.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return rm, ErrRoomNotFound
	}
	return rm, err
}

// ListByIDs fetches exactly the given rooms, ordered by room number.
// If any id does not resolve to a stored room the whole call fails
// with ErrRoomNotFound, so generation never silently runs on a
// partial room set.
func (r *RoomRepo) ListByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE id IN (?` +
		strings.Repeat(",?", len(ids)-1) + `) ORDER BY room_number ASC`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := collectRooms(rows)
	if err != nil {
		return nil, err
	}
	if len(out) != len(dedupe(ids)) {
		return nil, ErrRoomNotFound
	}
	return out, nil
}

// ListActive returns all active rooms, optionally restricted to one
// building, ordered by room number.
func (r *RoomRepo) ListActive(ctx context.Context, buildingID *uint64) ([]model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE is_active = 1`
	var args []any
	if buildingID != nil {
		q += ` AND building_id = ?`
		args = append(args, *buildingID)
	}
	q += ` ORDER BY room_number ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

// Update changes a room's number, capacity or active flag.
func (r *RoomRepo) Update(ctx context.Context, rm model.Room) error {
	const q = `UPDATE rooms SET room_number = ?, capacity = ?, is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rm.RoomNumber, rm.Capacity, rm.IsActive, rm.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete removes a room. Rooms referenced by seat assignments yield
// ErrConflict; regenerate or clear seating first.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seat_assignments WHERE room_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func collectRooms(rows *sql.Rows) ([]model.Room, error) {
	var out []model.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
