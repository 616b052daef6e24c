package model

import (
	"strings"
	"time"
)

// Block represents a single eighth-period block: a scheduled slot on a
// specific date identified by a letter (e.g. A, B).  The pair
// (date, block_letter) is unique.  Once a block is locked no further
// signups are accepted without an admin override.
//
// Fields:
//  ID        – primary key identifier.
//  Date      – calendar date of the block (midnight UTC, date-only).
//  Letter    – block letter, stored upper-case.
//  Locked    – whether signups for the block are frozen.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Block struct {
	ID        uint64    // blocks.id
	Date      time.Time // blocks.date
	Letter    string    // blocks.block_letter
	Locked    bool      // blocks.locked
	CreatedAt time.Time // blocks.created_at
	UpdatedAt time.Time // blocks.updated_at
}

// Compare imposes the total block order (date, letter) ascending.
// It returns a negative value when b sorts before o, zero when the
// two blocks occupy the same slot, and a positive value otherwise.
func (b Block) Compare(o Block) int {
	bd, od := b.Date.Truncate(24*time.Hour), o.Date.Truncate(24*time.Hour)
	if bd.Before(od) {
		return -1
	}
	if bd.After(od) {
		return 1
	}
	return strings.Compare(b.Letter, o.Letter)
}

// SameDate reports whether both blocks fall on the same calendar date.
func (b Block) SameDate(o Block) bool {
	return b.Date.Truncate(24 * time.Hour).Equal(o.Date.Truncate(24 * time.Hour))
}
