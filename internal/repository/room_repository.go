package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// ErrRoomNotFound is returned when a room cannot be found.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomExists is returned when a room name collides with an
// existing row.
var ErrRoomExists = errors.New("room already exists")

// RoomRepo encapsulates all database queries related to rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a new room and populates its ID and timestamps.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const qInsert = "INSERT INTO rooms (name, capacity) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, rm.Name, rm.Capacity)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM rooms WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, rm.ID).Scan(&rm.CreatedAt, &rm.UpdatedAt)
}

// GetByID fetches a room by ID, returning ErrRoomNotFound when no row
// exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = "SELECT id, name, capacity, created_at, updated_at FROM rooms WHERE id = ?"
	var rm model.Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// List returns all rooms ordered by name.
func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	const q = "SELECT id, name, capacity, created_at, updated_at FROM rooms ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		rm := new(model.Room)
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Update rewrites a room's name and capacity.  Capacity changes take
// effect immediately for every activity that derives its default
// capacity from this room.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = "UPDATE rooms SET name = ?, capacity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, rm.Name, rm.Capacity, rm.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete removes a room unless an activity or scheduled occurrence
// still references it.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	const qRefs = `SELECT (SELECT COUNT(*) FROM activity_rooms WHERE room_id = ?)
	             + (SELECT COUNT(*) FROM scheduled_rooms WHERE room_id = ?)`
	if err := r.db.QueryRowContext(ctx, qRefs, id, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
