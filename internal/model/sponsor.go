package model

import "time"

// Sponsor represents a staff member who supervises an eighth-period
// activity.  A sponsor may be backed by an application user or exist
// as a plain name.  This struct corresponds to a row in the
// `sponsors` table.
//
// Fields:
//  ID               – primary key identifier.
//  FirstName        – sponsor's first name.
//  LastName         – sponsor's last name.
//  UserID           – linked user account (nil when name-only).
//  OnlineAttendance – whether the sponsor takes attendance online.
//  CreatedAt        – timestamp when the sponsor was created.
//  UpdatedAt        – timestamp of last update.
type Sponsor struct {
	ID               uint64    // sponsors.id
	FirstName        string    // sponsors.first_name
	LastName         string    // sponsors.last_name
	UserID           *uint64   // sponsors.user_id (nullable)
	OnlineAttendance bool      // sponsors.online_attendance
	CreatedAt        time.Time // sponsors.created_at
	UpdatedAt        time.Time // sponsors.updated_at
}
