package eighth

import (
	"context"
	"time"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// DateSignup is a signup joined to the policy flags the rule chain
// needs: the block and activity it points at and whether that
// activity is sticky.  The store returns these for all of a user's
// signups on a single calendar date.
type DateSignup struct {
	SignupID    uint64
	ScheduledID uint64
	BlockID     uint64
	ActivityID  uint64
	Sticky      bool
}

// Store is the durable-store contract consumed by the admission
// controller and the block graph.  The production implementation
// lives in the repository package on top of MySQL; tests use an
// in-memory substitute.  Implementations must enforce a uniqueness
// constraint on (user, block) signups and surface violations as
// ErrDuplicateSignup.
type Store interface {
	// AllBlocks returns every block ordered by (date, letter) ascending.
	AllBlocks(ctx context.Context) ([]model.Block, error)
	// SignupForUserBlock returns the user's signup in the given block,
	// or nil when the user has none.
	SignupForUserBlock(ctx context.Context, userID, blockID uint64) (*model.Signup, error)
	// SignupsForUserOnDate returns the user's signups across all blocks
	// on the given calendar date, joined to activity flags.
	SignupsForUserOnDate(ctx context.Context, userID uint64, date time.Time) ([]DateSignup, error)
	// CountSignups returns the number of active signups for a scheduled
	// occurrence.
	CountSignups(ctx context.Context, scheduledID uint64) (int, error)
	// CreateSignup inserts a new signup row, populating its ID.  It
	// returns ErrDuplicateSignup when the (user, block) index rejects
	// the insert.
	CreateSignup(ctx context.Context, s *model.Signup) error
	// TransferSignup repoints an existing signup at a different
	// scheduled occurrence, preserving the row's identity.
	TransferSignup(ctx context.Context, signupID, scheduledID uint64, afterDeadline bool) error
}
