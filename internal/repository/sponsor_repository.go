package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// ErrSponsorNotFound is returned when a sponsor cannot be found.
var ErrSponsorNotFound = errors.New("sponsor not found")

// ErrSponsorExists is returned when creating a sponsor that collides
// with an existing (first_name, last_name, user_id) combination.
var ErrSponsorExists = errors.New("sponsor already exists")

// SponsorRepo encapsulates all database queries related to sponsors.
// It depends on a sql.DB connection configured elsewhere.
type SponsorRepo struct {
	db *sql.DB
}

// NewSponsorRepo constructs a SponsorRepo with the provided DB handle.
func NewSponsorRepo(db *sql.DB) *SponsorRepo { return &SponsorRepo{db: db} }

// Create inserts a new sponsor.  On success the sponsor's ID and
// timestamp fields are populated.
func (r *SponsorRepo) Create(ctx context.Context, s *model.Sponsor) error {
	const qInsert = "INSERT INTO sponsors (first_name, last_name, user_id, online_attendance) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, s.FirstName, s.LastName, s.UserID, s.OnlineAttendance)
	if err != nil {
		if isDuplicate(err) {
			return ErrSponsorExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM sponsors WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches a sponsor by ID.  It returns ErrSponsorNotFound if
// no row exists.
func (r *SponsorRepo) GetByID(ctx context.Context, id uint64) (*model.Sponsor, error) {
	const q = "SELECT id, first_name, last_name, user_id, online_attendance, created_at, updated_at FROM sponsors WHERE id = ?"
	var (
		s      model.Sponsor
		userID sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.FirstName, &s.LastName, &userID, &s.OnlineAttendance, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSponsorNotFound
		}
		return nil, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		s.UserID = &uid
	}
	return &s, nil
}

// List returns all sponsors ordered by last then first name.
func (r *SponsorRepo) List(ctx context.Context) ([]*model.Sponsor, error) {
	const q = `SELECT id, first_name, last_name, user_id, online_attendance, created_at, updated_at
	           FROM sponsors ORDER BY last_name, first_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Sponsor
	for rows.Next() {
		s := new(model.Sponsor)
		var userID sql.NullInt64
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

// Update rewrites a sponsor's mutable fields.  It returns
// ErrSponsorNotFound when no row is affected.
func (r *SponsorRepo) Update(ctx context.Context, s *model.Sponsor) error {
	const q = `UPDATE sponsors
	           SET first_name = ?, last_name = ?, user_id = ?, online_attendance = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.FirstName, s.LastName, s.UserID, s.OnlineAttendance, s.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrSponsorExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSponsorNotFound
	}
	return nil
}

// Delete removes a sponsor unless an activity or scheduled occurrence
// still references it, in which case ErrConflict is returned.
func (r *SponsorRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	const qRefs = `SELECT (SELECT COUNT(*) FROM activity_sponsors WHERE sponsor_id = ?)
	             + (SELECT COUNT(*) FROM scheduled_sponsors WHERE sponsor_id = ?)`
	if err := r.db.QueryRowContext(ctx, qRefs, id, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM sponsors WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSponsorNotFound
	}
	return nil
}
