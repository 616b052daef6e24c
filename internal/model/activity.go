package model

import "time"

// ActivityStatus represents the lifecycle of an activity.  Activities
// are soft-deleted: a DELETED activity disappears from default
// listings but all historical scheduled occurrences and signups that
// reference it remain valid.
type ActivityStatus string

// Possible activity statuses.
const (
	ActivityStatusActive  ActivityStatus = "ACTIVE"
	ActivityStatusDeleted ActivityStatus = "DELETED"
)

// UnlimitedCapacity is the sentinel meaning "no capacity limit".  It
// is used both for explicit capacity overrides and for activities
// with no rooms assigned.
const UnlimitedCapacity = -1

// Activity represents an eighth-period elective offering.  An
// activity carries default sponsors and rooms plus a set of policy
// flags consulted by the signup admission controller.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique activity name.
//  Description – optional free-text description.
//  Restricted  – signup limited to an allowed set of users.
//  Presign     – signup opens only two days before the block date.
//  OneADay     – a user may join at most once per calendar date.
//  BothBlocks  – the activity spans both blocks of its day.
//  Sticky      – joining locks the user in for the rest of the day.
//  Special     – flagged as a special event in listings.
//  Status      – lifecycle status (ACTIVE, DELETED).
//  Sponsors    – default sponsor set (loaded by the repository).
//  Rooms       – default room set (loaded by the repository).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Activity struct {
	ID          uint64         // activities.id
	Name        string         // activities.name
	Description string         // activities.description
	Restricted  bool           // activities.restricted
	Presign     bool           // activities.presign
	OneADay     bool           // activities.one_a_day
	BothBlocks  bool           // activities.both_blocks
	Sticky      bool           // activities.sticky
	Special     bool           // activities.special
	Status      ActivityStatus // activities.status
	Sponsors    []Sponsor
	Rooms       []Room
	CreatedAt   time.Time // activities.created_at
	UpdatedAt   time.Time // activities.updated_at
}

// Deleted reports whether the activity has been soft-deleted.
func (a Activity) Deleted() bool { return a.Status == ActivityStatusDeleted }

// Capacity returns the activity's default capacity: the sum of the
// capacities of its assigned rooms, or UnlimitedCapacity when no
// rooms are assigned.  A single unrestricted room makes the whole
// activity unrestricted.
func (a Activity) Capacity() int { return roomsCapacity(a.Rooms) }

func roomsCapacity(rooms []Room) int {
	if len(rooms) == 0 {
		return UnlimitedCapacity
	}
	total := 0
	for _, r := range rooms {
		if r.Capacity == UnlimitedCapacity {
			return UnlimitedCapacity
		}
		total += r.Capacity
	}
	return total
}
