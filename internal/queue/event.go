// Package queue defines message payloads exchanged over the message broker.
package queue

// SignupConfirmedEvent is published when a student's enrollment for a
// block is created or moved. It contains enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type SignupConfirmedEvent struct {
	SignupID     uint64 `json:"signup_id"`
	UserID       uint64 `json:"user_id"`
	ScheduledID  uint64 `json:"scheduled_activity_id"`
	ActivityID   uint64 `json:"activity_id"`
	ActivityName string `json:"activity_name"`
	BlockID      uint64 `json:"block_id"`
	BlockDate    string `json:"block_date"`
	BlockLetter  string `json:"block_letter"`
	// Rooms holds the effective room names so attendance tooling
	// knows where to find the student without a database lookup.
	Rooms         []string `json:"rooms"`
	Forced        bool     `json:"forced"`
	AfterDeadline bool     `json:"after_deadline"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
