package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/eighth-period-signup/internal/eighth"
	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// ErrSignupNotFound is returned when a signup row cannot be found.
var ErrSignupNotFound = errors.New("signup not found")

// SignupRepo is the MySQL-backed store behind the signup admission
// controller.  The signups table carries a unique index on
// (user_id, block_id); the controller relies on the resulting
// ErrDuplicateSignup to serialize concurrent requests for the same
// user and block.
type SignupRepo struct {
	db *sql.DB
}

// NewSignupRepo constructs a SignupRepo with the provided DB handle.
func NewSignupRepo(db *sql.DB) *SignupRepo { return &SignupRepo{db: db} }

var _ eighth.Store = (*SignupRepo)(nil)

// AllBlocks returns every block ordered by date then letter.
func (r *SignupRepo) AllBlocks(ctx context.Context) ([]model.Block, error) {
	const q = `SELECT id, date, block_letter, locked, created_at, updated_at
	           FROM blocks ORDER BY date, block_letter`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Block{}
	for rows.Next() {
		var b model.Block
		if err := rows.Scan(&b.ID, &b.Date, &b.Letter, &b.Locked, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SignupForUserBlock returns the user's signup in the given block, or
// nil when the user has none.
func (r *SignupRepo) SignupForUserBlock(ctx context.Context, userID, blockID uint64) (*model.Signup, error) {
	const q = `SELECT id, user_id, scheduled_activity_id, block_id, after_deadline, created_at, updated_at
	           FROM signups WHERE user_id = ? AND block_id = ?`
	var s model.Signup
	err := r.db.QueryRowContext(ctx, q, userID, blockID).Scan(
		&s.ID, &s.UserID, &s.ScheduledID, &s.BlockID, &s.AfterDeadline, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SignupsForUserOnDate returns the user's signups across every block
// on the given calendar date, joined to the flags the admission rule
// chain consults.
func (r *SignupRepo) SignupsForUserOnDate(ctx context.Context, userID uint64, date time.Time) ([]eighth.DateSignup, error) {
	const q = `SELECT su.id, su.scheduled_activity_id, su.block_id, sa.activity_id, a.sticky
	           FROM signups su
	           JOIN scheduled_activities sa ON sa.id = su.scheduled_activity_id
	           JOIN blocks b ON b.id = su.block_id
	           JOIN activities a ON a.id = sa.activity_id
	           WHERE su.user_id = ? AND b.date = ?`
	rows, err := r.db.QueryContext(ctx, q, userID, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []eighth.DateSignup{}
	for rows.Next() {
		var ds eighth.DateSignup
		if err := rows.Scan(&ds.SignupID, &ds.ScheduledID, &ds.BlockID, &ds.ActivityID, &ds.Sticky); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// CountSignups returns the number of active signups for a scheduled
// occurrence.
func (r *SignupRepo) CountSignups(ctx context.Context, scheduledID uint64) (int, error) {
	const q = "SELECT COUNT(*) FROM signups WHERE scheduled_activity_id = ?"
	var n int
	if err := r.db.QueryRowContext(ctx, q, scheduledID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateSignup inserts a new signup row.  A collision on the
// (user_id, block_id) unique index surfaces as ErrDuplicateSignup so
// the admission controller can fall back to a transfer.
func (r *SignupRepo) CreateSignup(ctx context.Context, s *model.Signup) error {
	const qInsert = `INSERT INTO signups (user_id, scheduled_activity_id, block_id, after_deadline)
	                 VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, s.UserID, s.ScheduledID, s.BlockID, s.AfterDeadline)
	if err != nil {
		if isDuplicate(err) {
			return eighth.ErrDuplicateSignup
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM signups WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// TransferSignup repoints an existing signup at a different scheduled
// occurrence.  The row keeps its identity, so the unique index on
// (user_id, block_id) stays satisfied throughout the move.
func (r *SignupRepo) TransferSignup(ctx context.Context, signupID, scheduledID uint64, afterDeadline bool) error {
	const q = `UPDATE signups
	           SET scheduled_activity_id = ?, after_deadline = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, scheduledID, afterDeadline, signupID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSignupNotFound
	}
	return nil
}

// SignupDetail is a signup joined to the display fields a student's
// schedule listing needs.  Unlike the model structs it carries json
// tags: handlers return it directly.
type SignupDetail struct {
	ID            uint64    `json:"signup_id"`
	UserID        uint64    `json:"user_id"`
	ScheduledID   uint64    `json:"scheduled_activity_id"`
	BlockID       uint64    `json:"block_id"`
	AfterDeadline bool      `json:"after_deadline"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ActivityID    uint64    `json:"activity_id"`
	ActivityName  string    `json:"activity_name"`
	BlockDate     time.Time `json:"block_date"`
	BlockLetter   string    `json:"block_letter"`
	Cancelled     bool      `json:"cancelled"`
}

// ListByUser returns the user's signups with activity and block
// context, newest block first.
func (r *SignupRepo) ListByUser(ctx context.Context, userID uint64) ([]SignupDetail, error) {
	const q = `SELECT su.id, su.user_id, su.scheduled_activity_id, su.block_id, su.after_deadline,
	                  su.created_at, su.updated_at,
	                  a.id, a.name, b.date, b.block_letter, sa.cancelled
	           FROM signups su
	           JOIN scheduled_activities sa ON sa.id = su.scheduled_activity_id
	           JOIN activities a ON a.id = sa.activity_id
	           JOIN blocks b ON b.id = su.block_id
	           WHERE su.user_id = ?
	           ORDER BY b.date DESC, b.block_letter DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SignupDetail{}
	for rows.Next() {
		var d SignupDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.ScheduledID, &d.BlockID, &d.AfterDeadline,
			&d.CreatedAt, &d.UpdatedAt,
			&d.ActivityID, &d.ActivityName, &d.BlockDate, &d.BlockLetter, &d.Cancelled); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a user's signup from a block.
func (r *SignupRepo) Delete(ctx context.Context, userID, blockID uint64) error {
	const q = "DELETE FROM signups WHERE user_id = ? AND block_id = ?"
	res, err := r.db.ExecContext(ctx, q, userID, blockID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSignupNotFound
	}
	return nil
}
