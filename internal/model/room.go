package model

import "time"

// Room describes a physical room in which an eighth-period activity
// can be held.  A room's capacity contributes to the default capacity
// of every activity it is assigned to; a capacity of -1 marks the
// room itself as unrestricted.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – room name or number.
//  Capacity  – number of students the room holds (-1 = unrestricted).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64    // rooms.id
	Name      string    // rooms.name
	Capacity  int       // rooms.capacity
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}
