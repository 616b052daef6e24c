package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// ErrBlockNotFound is returned when a block cannot be found.
var ErrBlockNotFound = errors.New("block not found")

// ErrBlockExists is returned when a (date, letter) pair collides with
// an existing block.
var ErrBlockExists = errors.New("block already exists")

// BlockRepo encapsulates all database queries related to blocks.  The
// (date, block_letter) pair is unique and letters are upper-cased on
// every write so the uniqueness check is case-insensitive.
type BlockRepo struct {
	db *sql.DB
}

// NewBlockRepo constructs a BlockRepo with the provided DB handle.
func NewBlockRepo(db *sql.DB) *BlockRepo { return &BlockRepo{db: db} }

// Create inserts a new block, normalizing the letter, and populates
// its ID and timestamps.
func (r *BlockRepo) Create(ctx context.Context, b *model.Block) error {
	b.Letter = strings.ToUpper(strings.TrimSpace(b.Letter))
	const qInsert = "INSERT INTO blocks (date, block_letter, locked) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, b.Date.Format("2006-01-02"), b.Letter, b.Locked)
	if err != nil {
		if isDuplicate(err) {
			return ErrBlockExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM blocks WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches a block by ID, returning ErrBlockNotFound when no
// row exists.
func (r *BlockRepo) GetByID(ctx context.Context, id uint64) (*model.Block, error) {
	const q = "SELECT id, date, block_letter, locked, created_at, updated_at FROM blocks WHERE id = ?"
	var b model.Block
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Date, &b.Letter, &b.Locked, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListAll returns every block ordered by (date, letter) ascending,
// the total order the block graph traversal relies on.
func (r *BlockRepo) ListAll(ctx context.Context) ([]model.Block, error) {
	const q = "SELECT id, date, block_letter, locked, created_at, updated_at FROM blocks ORDER BY date, block_letter"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Block
	for rows.Next() {
		var b model.Block
		if err := rows.Scan(&b.ID, &b.Date, &b.Letter, &b.Locked, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SetLocked freezes or unfreezes signups for a block.
func (r *BlockRepo) SetLocked(ctx context.Context, id uint64, locked bool) error {
	const q = "UPDATE blocks SET locked = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, locked, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBlockNotFound
	}
	return nil
}
