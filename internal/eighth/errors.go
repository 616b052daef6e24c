// Package eighth implements the signup admission-control engine: the
// ordered rule chain deciding whether a user may be enrolled into a
// scheduled activity occurrence, and the block-graph traversal the
// rules depend on.  The package is storage-agnostic; it talks to a
// Store implementation and an injected Clock so every rule can be
// exercised deterministically in tests.
package eighth

import "errors"

// Signup rejection reasons, one per rule in the admission chain, in
// check order.  Each is a distinct sentinel so callers can
// discriminate with errors.Is and render specific guidance; none of
// them is ever wrapped inside another.
var (
	// ErrSignupForbidden: the actor is neither the target user nor an admin.
	ErrSignupForbidden = errors.New("signup forbidden")
	// ErrBlockLocked: the occurrence's block no longer accepts signups.
	ErrBlockLocked = errors.New("block locked")
	// ErrActivityCancelled: the scheduled occurrence has been cancelled.
	ErrActivityCancelled = errors.New("scheduled activity cancelled")
	// ErrActivityDeleted: the underlying activity has been soft-deleted.
	ErrActivityDeleted = errors.New("activity deleted")
	// ErrActivityFull: the occurrence's effective capacity is exhausted.
	ErrActivityFull = errors.New("activity full")
	// ErrPresignTooEarly: the activity requires presign and the window
	// has not opened yet.
	ErrPresignTooEarly = errors.New("presign period has not started")
	// ErrSticky: the user is stickied into another activity for the day.
	ErrSticky = errors.New("stickied into another activity")
	// ErrOneADay: the activity is one-a-day and the user already joined
	// it in another block on the same date.
	ErrOneADay = errors.New("already signed up for this activity today")
)

// ErrDuplicateSignup is returned by Store implementations when an
// insert collides with the unique (user, block) signup index.  The
// admission controller converts it into a transfer of the existing
// row; it never escapes AddUser.
var ErrDuplicateSignup = errors.New("duplicate signup for user and block")

// ErrAbsenceExists is returned by Store implementations when an
// absence already exists for the (block, user) pair.
var ErrAbsenceExists = errors.New("absence already recorded")
