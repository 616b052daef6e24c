package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/eighth-period-signup/internal/eighth"
	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// AbsenceRepo encapsulates all database queries related to absence
// records.  Absences are independent of signups: marking a user
// absent neither requires nor removes an enrollment.
type AbsenceRepo struct {
	db *sql.DB
}

// NewAbsenceRepo constructs an AbsenceRepo with the provided DB handle.
func NewAbsenceRepo(db *sql.DB) *AbsenceRepo { return &AbsenceRepo{db: db} }

// Create records an absence for a user in a block.  The (block, user)
// pair is unique; marking the same absence twice yields
// eighth.ErrAbsenceExists.
func (r *AbsenceRepo) Create(ctx context.Context, a *model.Absence) error {
	const qInsert = "INSERT INTO absences (block_id, user_id) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, a.BlockID, a.UserID)
	if err != nil {
		if isDuplicate(err) {
			return eighth.ErrAbsenceExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	const qSelect = "SELECT created_at FROM absences WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, a.ID).Scan(&a.CreatedAt)
}

// AbsenceDetail is an absence joined to its block for listings.  It
// carries json tags because handlers return it directly.
type AbsenceDetail struct {
	ID          uint64    `json:"absence_id"`
	BlockID     uint64    `json:"block_id"`
	UserID      uint64    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	BlockDate   time.Time `json:"block_date"`
	BlockLetter string    `json:"block_letter"`
}

// ListByUser returns every absence recorded for a user, newest block
// first.
func (r *AbsenceRepo) ListByUser(ctx context.Context, userID uint64) ([]AbsenceDetail, error) {
	const q = `SELECT ab.id, ab.block_id, ab.user_id, ab.created_at, b.date, b.block_letter
	           FROM absences ab
	           JOIN blocks b ON b.id = ab.block_id
	           WHERE ab.user_id = ?
	           ORDER BY b.date DESC, b.block_letter DESC`
	return r.list(ctx, q, userID)
}

// ListByBlock returns every absence recorded for a block ordered by
// user.
func (r *AbsenceRepo) ListByBlock(ctx context.Context, blockID uint64) ([]AbsenceDetail, error) {
	const q = `SELECT ab.id, ab.block_id, ab.user_id, ab.created_at, b.date, b.block_letter
	           FROM absences ab
	           JOIN blocks b ON b.id = ab.block_id
	           WHERE ab.block_id = ?
	           ORDER BY ab.user_id`
	return r.list(ctx, q, blockID)
}

// CountByUser returns how many absences the user has accumulated.
func (r *AbsenceRepo) CountByUser(ctx context.Context, userID uint64) (int, error) {
	const q = "SELECT COUNT(*) FROM absences WHERE user_id = ?"
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *AbsenceRepo) list(ctx context.Context, q string, arg any) ([]AbsenceDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AbsenceDetail{}
	for rows.Next() {
		var d AbsenceDetail
		if err := rows.Scan(&d.ID, &d.BlockID, &d.UserID, &d.CreatedAt, &d.BlockDate, &d.BlockLetter); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
