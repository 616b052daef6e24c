package model

import "time"

// Signup records a user's single active enrollment for a block.  The
// block ID is stored on the row itself so that the database can
// enforce the at-most-one-signup-per-(user, block) invariant with a
// unique index; the admission controller keeps it consistent with
// the referenced scheduled occurrence.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – the enrolled user.
//  ScheduledID   – the scheduled occurrence the user is enrolled in.
//  BlockID       – block of the scheduled occurrence (denormalized).
//  AfterDeadline – informational: the enrollment happened outside the
//                  normal signup window (e.g. forced into a locked block).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Signup struct {
	ID            uint64    // signups.id
	UserID        uint64    // signups.user_id
	ScheduledID   uint64    // signups.scheduled_activity_id
	BlockID       uint64    // signups.block_id
	AfterDeadline bool      // signups.after_deadline
	CreatedAt     time.Time // signups.created_at
	UpdatedAt     time.Time // signups.updated_at
}

// Absence marks a user absent for a block.  The pair (block, user)
// is unique; absences are independent of the signup lifecycle.
type Absence struct {
	ID        uint64    // absences.id
	BlockID   uint64    // absences.block_id
	UserID    uint64    // absences.user_id
	CreatedAt time.Time // absences.created_at
}
