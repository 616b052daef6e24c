package model

import "time"

// presignWindow is how far ahead of a block's date a presign-flagged
// activity accepts signups.
const presignWindow = 48 * time.Hour

// ScheduledActivity binds an activity into a specific block.  The
// pair (block_id, activity_id) is unique.  A scheduled occurrence may
// override the activity's default sponsors, rooms and capacity; a
// null override inherits the default.  Because an admin may
// legitimately override a set to empty, the sponsor and room
// overrides carry an explicit "overridden" flag instead of treating
// an empty collection as unset.
//
// Fields:
//  ID              – primary key identifier.
//  BlockID         – block during which the activity runs.
//  ActivityID      – the scheduled activity.
//  Comments        – free-text notes for the eighth-period office.
//  Sponsors        – sponsor override set (meaningful when SponsorsOverridden).
//  SponsorsOverridden – whether the sponsor set has been overridden.
//  Rooms           – room override set (meaningful when RoomsOverridden).
//  RoomsOverridden – whether the room set has been overridden.
//  Capacity        – capacity override (nil = inherit, -1 = unlimited).
//  AttendanceTaken – whether attendance has been recorded.
//  Cancelled       – whether the occurrence has been cancelled.
//  Block           – the owning block (loaded by the repository).
//  Activity        – the scheduled activity (loaded by the repository).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type ScheduledActivity struct {
	ID                 uint64 // scheduled_activities.id
	BlockID            uint64 // scheduled_activities.block_id
	ActivityID         uint64 // scheduled_activities.activity_id
	Comments           string // scheduled_activities.comments
	Sponsors           []Sponsor
	SponsorsOverridden bool // scheduled_activities.sponsors_overridden
	Rooms              []Room
	RoomsOverridden    bool      // scheduled_activities.rooms_overridden
	Capacity           *int      // scheduled_activities.capacity (nullable)
	AttendanceTaken    bool      // scheduled_activities.attendance_taken
	Cancelled          bool      // scheduled_activities.cancelled
	Block              Block     // loaded via blocks join
	Activity           Activity  // loaded via activities join
	CreatedAt          time.Time // scheduled_activities.created_at
	UpdatedAt          time.Time // scheduled_activities.updated_at
}

// EffectiveSponsors resolves the sponsor set for the occurrence:
// the override set when one has been recorded (even an empty one),
// otherwise the activity's default sponsors.
func (s *ScheduledActivity) EffectiveSponsors() []Sponsor {
	if s.SponsorsOverridden {
		return s.Sponsors
	}
	return s.Activity.Sponsors
}

// EffectiveRooms resolves the room set for the occurrence using the
// same override-then-default precedence as EffectiveSponsors.
func (s *ScheduledActivity) EffectiveRooms() []Room {
	if s.RoomsOverridden {
		return s.Rooms
	}
	return s.Activity.Rooms
}

// EffectiveCapacity resolves the capacity for the occurrence: the
// explicit override when present (including an explicit unlimited
// override), otherwise the capacity derived from the effective rooms.
func (s *ScheduledActivity) EffectiveCapacity() int {
	if s.Capacity != nil {
		return *s.Capacity
	}
	return roomsCapacity(s.EffectiveRooms())
}

// IsFull reports whether the given number of active signups exhausts
// the occurrence's effective capacity.  An unlimited occurrence is
// never full.
func (s *ScheduledActivity) IsFull(signupCount int) bool {
	capacity := s.EffectiveCapacity()
	if capacity == UnlimitedCapacity {
		return false
	}
	return signupCount >= capacity
}

// IsTooEarly reports whether now falls before the presign window
// opens: strictly earlier than two days before the block's date at
// midnight.  Only consulted when the activity has the presign flag.
func (s *ScheduledActivity) IsTooEarly(now time.Time) bool {
	opens := s.Block.Date.Truncate(24 * time.Hour).Add(-presignWindow)
	return now.Before(opens)
}
