package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// ErrScheduledNotFound is returned when a scheduled occurrence cannot
// be found.
var ErrScheduledNotFound = errors.New("scheduled activity not found")

// ErrScheduledExists is returned when an activity is already
// scheduled into the given block.
var ErrScheduledExists = errors.New("activity already scheduled in block")

// ScheduledRepo encapsulates all database queries related to
// scheduled occurrences: the binding of an activity into a block,
// plus the per-occurrence sponsor/room/capacity overrides.  The
// sponsors_overridden and rooms_overridden flags distinguish "never
// overridden" from "explicitly overridden to an empty set"; the
// override join tables alone cannot.
type ScheduledRepo struct {
	db *sql.DB
}

// NewScheduledRepo constructs a ScheduledRepo with the provided DB handle.
func NewScheduledRepo(db *sql.DB) *ScheduledRepo { return &ScheduledRepo{db: db} }

// Create schedules an activity into a block.  The (block, activity)
// pair is unique; a collision yields ErrScheduledExists.
func (r *ScheduledRepo) Create(ctx context.Context, sa *model.ScheduledActivity) error {
	const qInsert = "INSERT INTO scheduled_activities (block_id, activity_id, comments) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, sa.BlockID, sa.ActivityID, sa.Comments)
	if err != nil {
		if isDuplicate(err) {
			return ErrScheduledExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sa.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM scheduled_activities WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, sa.ID).Scan(&sa.CreatedAt, &sa.UpdatedAt)
}

const scheduledColumns = `sa.id, sa.block_id, sa.activity_id, sa.comments,
	       sa.sponsors_overridden, sa.rooms_overridden, sa.capacity,
	       sa.attendance_taken, sa.cancelled, sa.created_at, sa.updated_at,
	       b.id, b.date, b.block_letter, b.locked, b.created_at, b.updated_at,
	       a.id, a.name, a.description, a.restricted, a.presign, a.one_a_day,
	       a.both_blocks, a.sticky, a.special, a.status, a.created_at, a.updated_at`

func scanScheduled(row interface{ Scan(...any) error }) (*model.ScheduledActivity, error) {
	var (
		sa       model.ScheduledActivity
		capacity sql.NullInt64
	)
	err := row.Scan(
		&sa.ID, &sa.BlockID, &sa.ActivityID, &sa.Comments,
		&sa.SponsorsOverridden, &sa.RoomsOverridden, &capacity,
		&sa.AttendanceTaken, &sa.Cancelled, &sa.CreatedAt, &sa.UpdatedAt,
		&sa.Block.ID, &sa.Block.Date, &sa.Block.Letter, &sa.Block.Locked,
		&sa.Block.CreatedAt, &sa.Block.UpdatedAt,
		&sa.Activity.ID, &sa.Activity.Name, &sa.Activity.Description,
		&sa.Activity.Restricted, &sa.Activity.Presign, &sa.Activity.OneADay,
		&sa.Activity.BothBlocks, &sa.Activity.Sticky, &sa.Activity.Special,
		&sa.Activity.Status, &sa.Activity.CreatedAt, &sa.Activity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if capacity.Valid {
		n := int(capacity.Int64)
		sa.Capacity = &n
	}
	return &sa, nil
}

// GetByID fetches a scheduled occurrence fully loaded: its block, its
// activity with default sponsors/rooms, and any override sets.  The
// admission controller requires all of these to evaluate the rule
// chain.
func (r *ScheduledRepo) GetByID(ctx context.Context, id uint64) (*model.ScheduledActivity, error) {
	const q = `SELECT ` + scheduledColumns + `
	           FROM scheduled_activities sa
	           JOIN blocks b ON b.id = sa.block_id
	           JOIN activities a ON a.id = sa.activity_id
	           WHERE sa.id = ?`
	sa, err := scanScheduled(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduledNotFound
		}
		return nil, err
	}
	if err := r.loadSets(ctx, sa); err != nil {
		return nil, err
	}
	return sa, nil
}

// ScheduledDetail pairs a loaded occurrence with its active signup
// count for listings.
type ScheduledDetail struct {
	*model.ScheduledActivity
	SignupCount int
}

// ListByBlock returns every occurrence scheduled into a block,
// ordered by activity name, each with its current signup count.
func (r *ScheduledRepo) ListByBlock(ctx context.Context, blockID uint64) ([]ScheduledDetail, error) {
	const q = `SELECT ` + scheduledColumns + `
	           FROM scheduled_activities sa
	           JOIN blocks b ON b.id = sa.block_id
	           JOIN activities a ON a.id = sa.activity_id
	           WHERE sa.block_id = ?
	           ORDER BY a.name`
	rows, err := r.db.QueryContext(ctx, q, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ScheduledDetail{}
	for rows.Next() {
		sa, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ScheduledDetail{ScheduledActivity: sa})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := r.loadSets(ctx, out[i].ScheduledActivity); err != nil {
			return nil, err
		}
		const qCount = "SELECT COUNT(*) FROM signups WHERE scheduled_activity_id = ?"
		if err := r.db.QueryRowContext(ctx, qCount, out[i].ID).Scan(&out[i].SignupCount); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update rewrites the occurrence's mutable scalar fields: comments,
// capacity override (nil clears it back to inherit), cancellation and
// attendance flags.
func (r *ScheduledRepo) Update(ctx context.Context, sa *model.ScheduledActivity) error {
	var capacity any
	if sa.Capacity != nil {
		capacity = *sa.Capacity
	}
	const q = `UPDATE scheduled_activities
	           SET comments = ?, capacity = ?, cancelled = ?, attendance_taken = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, sa.Comments, capacity, sa.Cancelled, sa.AttendanceTaken, sa.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduledNotFound
	}
	return nil
}

// SetSponsorOverride replaces the occurrence's sponsor override.
// With overridden=false the override is cleared and the activity's
// defaults apply again; with overridden=true the given set (possibly
// empty) takes precedence.
func (r *ScheduledRepo) SetSponsorOverride(ctx context.Context, scheduledID uint64, sponsorIDs []uint64, overridden bool) error {
	return r.replaceOverride(ctx, "scheduled_sponsors", "sponsor_id", "sponsors_overridden", scheduledID, sponsorIDs, overridden)
}

// SetRoomOverride replaces the occurrence's room override with the
// same semantics as SetSponsorOverride.
func (r *ScheduledRepo) SetRoomOverride(ctx context.Context, scheduledID uint64, roomIDs []uint64, overridden bool) error {
	return r.replaceOverride(ctx, "scheduled_rooms", "room_id", "rooms_overridden", scheduledID, roomIDs, overridden)
}

// replaceOverride swaps one override join table and its flag in a
// transaction.  table, column and flag are compile-time constants at
// every call site.
func (r *ScheduledRepo) replaceOverride(ctx context.Context, table, column, flag string, scheduledID uint64, ids []uint64, overridden bool) error {
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

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE scheduled_activity_id = ?", scheduledID); err != nil {
		return err
	}
	if overridden {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO "+table+" (scheduled_activity_id, "+column+") VALUES (?, ?)", scheduledID, id); err != nil {
				return err
			}
		}
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE scheduled_activities SET "+flag+" = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", overridden, scheduledID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScheduledNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// loadSets populates the occurrence's override sponsor/room sets and
// the activity's default sets.
func (r *ScheduledRepo) loadSets(ctx context.Context, sa *model.ScheduledActivity) error {
	sponsors, err := querySponsors(ctx, r.db,
		`SELECT s.id, s.first_name, s.last_name, s.user_id, s.online_attendance, s.created_at, s.updated_at
		 FROM sponsors s JOIN scheduled_sponsors o ON o.sponsor_id = s.id
		 WHERE o.scheduled_activity_id = ? ORDER BY s.last_name, s.first_name`, sa.ID)
	if err != nil {
		return err
	}
	rooms, err := queryRooms(ctx, r.db,
		`SELECT r.id, r.name, r.capacity, r.created_at, r.updated_at
		 FROM rooms r JOIN scheduled_rooms o ON o.room_id = r.id
		 WHERE o.scheduled_activity_id = ? ORDER BY r.name`, sa.ID)
	if err != nil {
		return err
	}
	sa.Sponsors, sa.Rooms = sponsors, rooms

	defSponsors, err := querySponsors(ctx, r.db,
		`SELECT s.id, s.first_name, s.last_name, s.user_id, s.online_attendance, s.created_at, s.updated_at
		 FROM sponsors s JOIN activity_sponsors a ON a.sponsor_id = s.id
		 WHERE a.activity_id = ? ORDER BY s.last_name, s.first_name`, sa.ActivityID)
	if err != nil {
		return err
	}
	defRooms, err := queryRooms(ctx, r.db,
		`SELECT r.id, r.name, r.capacity, r.created_at, r.updated_at
		 FROM rooms r JOIN activity_rooms a ON a.room_id = r.id
		 WHERE a.activity_id = ? ORDER BY r.name`, sa.ActivityID)
	if err != nil {
		return err
	}
	sa.Activity.Sponsors, sa.Activity.Rooms = defSponsors, defRooms
	return nil
}
