package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// ErrActivityNotFound is returned when an activity cannot be found.
var ErrActivityNotFound = errors.New("activity not found")

// ErrActivityExists is returned when an activity name collides with
// an existing row.
var ErrActivityExists = errors.New("activity already exists")

// ActivityRepo encapsulates all database queries related to
// activities and their default sponsor/room assignments.  Soft
// deletion is modeled as a status column: default listings exclude
// DELETED rows, while lookups by ID still return them so that
// historical scheduled occurrences stay resolvable.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo constructs an ActivityRepo with the provided DB handle.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

const activityColumns = "id, name, description, restricted, presign, one_a_day, both_blocks, sticky, special, status, created_at, updated_at"

func scanActivity(row interface{ Scan(...any) error }, a *model.Activity) error {
	return row.Scan(&a.ID, &a.Name, &a.Description, &a.Restricted, &a.Presign, &a.OneADay,
		&a.BothBlocks, &a.Sticky, &a.Special, &a.Status, &a.CreatedAt, &a.UpdatedAt)
}

// Create inserts a new activity with status ACTIVE and populates its
// ID and timestamps.  Default sponsors and rooms are assigned
// separately via SetSponsors and SetRooms.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	const qInsert = `INSERT INTO activities
	    (name, description, restricted, presign, one_a_day, both_blocks, sticky, special, status)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'ACTIVE')`
	res, err := r.db.ExecContext(ctx, qInsert, a.Name, a.Description,
		a.Restricted, a.Presign, a.OneADay, a.BothBlocks, a.Sticky, a.Special)
	if err != nil {
		if isDuplicate(err) {
			return ErrActivityExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.Status = model.ActivityStatusActive

	const qSelect = "SELECT created_at, updated_at FROM activities WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches an activity by ID with its default sponsors and
// rooms loaded.  Soft-deleted activities are returned as well; the
// caller decides whether DELETED is acceptable.
func (r *ActivityRepo) GetByID(ctx context.Context, id uint64) (*model.Activity, error) {
	const q = "SELECT " + activityColumns + " FROM activities WHERE id = ?"
	var a model.Activity
	if err := scanActivity(r.db.QueryRowContext(ctx, q, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	if err := r.loadAssignments(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns activities ordered by name.  By default soft-deleted
// activities are excluded; pass includeDeleted to see everything.  An
// optional query filters by case-insensitive name substring.
func (r *ActivityRepo) List(ctx context.Context, query string, includeDeleted bool) ([]*model.Activity, error) {
	q := "SELECT " + activityColumns + " FROM activities"
	var (
		where []string
		args  []any
	)
	if !includeDeleted {
		where = append(where, "status <> 'DELETED'")
	}
	if query = strings.TrimSpace(query); query != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+query+"%")
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Activity
	for rows.Next() {
		a := new(model.Activity)
		if err := scanActivity(rows, a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, a := range out {
		if err := r.loadAssignments(ctx, a); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update rewrites an activity's fields and policy flags.
func (r *ActivityRepo) Update(ctx context.Context, a *model.Activity) error {
	const q = `UPDATE activities
	           SET name = ?, description = ?, restricted = ?, presign = ?, one_a_day = ?,
	               both_blocks = ?, sticky = ?, special = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Description, a.Restricted, a.Presign,
		a.OneADay, a.BothBlocks, a.Sticky, a.Special, a.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrActivityExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// SoftDelete marks an activity DELETED.  The row, its scheduled
// occurrences and historical signups all remain; the activity merely
// disappears from default listings and rejects new signups.
func (r *ActivityRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = "UPDATE activities SET status = 'DELETED', updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status <> 'DELETED'"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// Restore returns a soft-deleted activity to ACTIVE status.
func (r *ActivityRepo) Restore(ctx context.Context, id uint64) error {
	const q = "UPDATE activities SET status = 'ACTIVE', updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = 'DELETED'"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// SetSponsors replaces the activity's default sponsor set.
func (r *ActivityRepo) SetSponsors(ctx context.Context, activityID uint64, sponsorIDs []uint64) error {
	return r.replaceAssignments(ctx, "activity_sponsors", "sponsor_id", activityID, sponsorIDs)
}

// SetRooms replaces the activity's default room set.  The activity's
// default capacity follows from the new set.
func (r *ActivityRepo) SetRooms(ctx context.Context, activityID uint64, roomIDs []uint64) error {
	return r.replaceAssignments(ctx, "activity_rooms", "room_id", activityID, roomIDs)
}

// replaceAssignments swaps the join-table rows for one activity in a
// transaction.  table and column are compile-time constants at every
// call site, never user input.
func (r *ActivityRepo) replaceAssignments(ctx context.Context, table, column string, activityID uint64, ids []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE activity_id = ?", activityID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (activity_id, "+column+") VALUES (?, ?)", activityID, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// loadAssignments populates the activity's default sponsor and room
// slices.
func (r *ActivityRepo) loadAssignments(ctx context.Context, a *model.Activity) error {
	sponsors, err := querySponsors(ctx, r.db,
		`SELECT s.id, s.first_name, s.last_name, s.user_id, s.online_attendance, s.created_at, s.updated_at
		 FROM sponsors s JOIN activity_sponsors a ON a.sponsor_id = s.id
		 WHERE a.activity_id = ? ORDER BY s.last_name, s.first_name`, a.ID)
	if err != nil {
		return err
	}
	rooms, err := queryRooms(ctx, r.db,
		`SELECT r.id, r.name, r.capacity, r.created_at, r.updated_at
		 FROM rooms r JOIN activity_rooms a ON a.room_id = r.id
		 WHERE a.activity_id = ? ORDER BY r.name`, a.ID)
	if err != nil {
		return err
	}
	a.Sponsors, a.Rooms = sponsors, rooms
	return nil
}

// querySponsors runs a sponsor-shaped query and scans all rows.
func querySponsors(ctx context.Context, db *sql.DB, q string, args ...any) ([]model.Sponsor, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Sponsor{}
	for rows.Next() {
		var (
			s      model.Sponsor
			userID sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &userID, &s.OnlineAttendance, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			uid := uint64(userID.Int64)
			s.UserID = &uid
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// queryRooms runs a room-shaped query and scans all rows.
func queryRooms(ctx context.Context, db *sql.DB, q string, args ...any) ([]model.Room, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Room{}
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
