package model

import (
	"testing"
	"time"
)

func capPtr(n int) *int { return &n }

func TestEffectiveCapacity(t *testing.T) {
	act := Activity{Rooms: []Room{{Capacity: 2}, {Capacity: 3}}}

	tests := []struct {
		name string
		occ  ScheduledActivity
		want int
	}{
		{"inherits room sum", ScheduledActivity{Activity: act}, 5},
		{"numeric override", ScheduledActivity{Activity: act, Capacity: capPtr(12)}, 12},
		{"explicit unlimited override", ScheduledActivity{Activity: act, Capacity: capPtr(UnlimitedCapacity)}, UnlimitedCapacity},
		{"explicit zero override", ScheduledActivity{Activity: act, Capacity: capPtr(0)}, 0},
		{"no rooms means unlimited", ScheduledActivity{Activity: Activity{}}, UnlimitedCapacity},
		{"inherits from overridden rooms", ScheduledActivity{Activity: act, Rooms: []Room{{Capacity: 10}}, RoomsOverridden: true}, 10},
		{"override cleared to no rooms", ScheduledActivity{Activity: act, RoomsOverridden: true}, UnlimitedCapacity},
		{"unrestricted room wins", ScheduledActivity{Activity: Activity{Rooms: []Room{{Capacity: 30}, {Capacity: UnlimitedCapacity}}}}, UnlimitedCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.occ.EffectiveCapacity(); got != tt.want {
				t.Errorf("EffectiveCapacity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsFull(t *testing.T) {
	occ := ScheduledActivity{Capacity: capPtr(2)}
	if occ.IsFull(1) {
		t.Error("IsFull(1) with capacity 2 = true")
	}
	if !occ.IsFull(2) {
		t.Error("IsFull(2) with capacity 2 = false")
	}
	unlimited := ScheduledActivity{Capacity: capPtr(UnlimitedCapacity)}
	if unlimited.IsFull(10000) {
		t.Error("unlimited occurrence reported full")
	}
}

func TestEffectiveSetsOverrideThenDefault(t *testing.T) {
	defSponsor := Sponsor{ID: 1, LastName: "Glazer"}
	defRoom := Room{ID: 1, Name: "104"}
	ovSponsor := Sponsor{ID: 2, LastName: "Kerr"}
	act := Activity{Sponsors: []Sponsor{defSponsor}, Rooms: []Room{defRoom}}

	plain := ScheduledActivity{Activity: act}
	if got := plain.EffectiveSponsors(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("EffectiveSponsors() = %v, want default sponsor", got)
	}
	if got := plain.EffectiveRooms(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("EffectiveRooms() = %v, want default room", got)
	}

	overridden := ScheduledActivity{
		Activity:           act,
		Sponsors:           []Sponsor{ovSponsor},
		SponsorsOverridden: true,
	}
	if got := overridden.EffectiveSponsors(); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("EffectiveSponsors() = %v, want override sponsor", got)
	}

	// An override explicitly cleared to empty is honored, not treated
	// as unset.
	cleared := ScheduledActivity{
		Activity:           act,
		SponsorsOverridden: true,
		RoomsOverridden:    true,
	}
	if got := cleared.EffectiveSponsors(); len(got) != 0 {
		t.Errorf("EffectiveSponsors() = %v, want empty override", got)
	}
	if got := cleared.EffectiveRooms(); len(got) != 0 {
		t.Errorf("EffectiveRooms() = %v, want empty override", got)
	}
}

func TestIsTooEarly(t *testing.T) {
	occ := ScheduledActivity{Block: Block{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"three days out", time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC), true},
		{"just before window opens", time.Date(2024, 1, 7, 23, 59, 59, 0, time.UTC), true},
		{"window boundary", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), false},
		{"day before", time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := occ.IsTooEarly(tt.now); got != tt.want {
				t.Errorf("IsTooEarly(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestBlockCompare(t *testing.T) {
	a := Block{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Letter: "A"}
	b := Block{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Letter: "B"}
	later := Block{Date: time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), Letter: "A"}

	if a.Compare(b) >= 0 {
		t.Error("same-date blocks must order by letter")
	}
	if b.Compare(later) >= 0 {
		t.Error("date takes precedence over letter")
	}
	if a.Compare(a) != 0 {
		t.Error("a block compares equal to itself")
	}
}
