package eighth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixture wires a memStore-backed service with a clock pinned well
// inside any presign window.
func fixture(t *testing.T, blocks ...model.Block) (*Service, *memStore) {
	t.Helper()
	store := newMemStore()
	for _, b := range blocks {
		store.addBlock(b)
	}
	clock := FixedClock{T: time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)}
	return NewService(store, clock), store
}

func TestAddUserRejections(t *testing.T) {
	capTwo := 2

	tests := []struct {
		name    string
		occ     model.ScheduledActivity
		actorID uint64
		admin   bool
		wantErr error
	}{
		{
			name:    "actor is another student",
			occ:     model.ScheduledActivity{Activity: model.Activity{Status: model.ActivityStatusActive}},
			actorID: 99,
			wantErr: ErrSignupForbidden,
		},
		{
			name: "block locked",
			occ: model.ScheduledActivity{
				Block:    model.Block{Locked: true},
				Activity: model.Activity{Status: model.ActivityStatusActive},
			},
			actorID: 1,
			wantErr: ErrBlockLocked,
		},
		{
			name: "occurrence cancelled",
			occ: model.ScheduledActivity{
				Cancelled: true,
				Activity:  model.Activity{Status: model.ActivityStatusActive},
			},
			actorID: 1,
			wantErr: ErrActivityCancelled,
		},
		{
			name: "activity soft-deleted",
			occ: model.ScheduledActivity{
				Activity: model.Activity{Status: model.ActivityStatusDeleted},
			},
			actorID: 1,
			wantErr: ErrActivityDeleted,
		},
		{
			name: "capacity override with room to spare",
			occ: model.ScheduledActivity{
				Capacity: &capTwo,
				Activity: model.Activity{Status: model.ActivityStatusActive},
			},
			actorID: 1,
			wantErr: nil, // capacity 2, nobody signed up yet
		},
		{
			name: "presign window not open",
			occ: model.ScheduledActivity{
				Block:    model.Block{Date: date(2024, 1, 20), Letter: "A"},
				Activity: model.Activity{Status: model.ActivityStatusActive, Presign: true},
			},
			actorID: 1,
			wantErr: ErrPresignTooEarly,
		},
		{
			name: "admin acting for student passes actor check",
			occ: model.ScheduledActivity{
				Activity: model.Activity{Status: model.ActivityStatusActive},
			},
			actorID: 42,
			admin:   true,
			wantErr: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := fixture(t)
			b := tt.occ.Block
			if b.Date.IsZero() {
				b.Date = date(2024, 1, 10)
				b.Letter = "A"
			}
			b = store.addBlock(b)
			tt.occ.Block = b
			if tt.occ.Activity.ID == 0 {
				tt.occ.Activity.ID = 500
			}
			occ := store.addScheduled(tt.occ)

			_, err := svc.AddUser(context.Background(), 1, occ, tt.actorID, tt.admin, false)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddUser() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddUserCheckOrder(t *testing.T) {
	// A locked block on a cancelled, deleted occurrence must report the
	// lock first: the chain short-circuits in declaration order.
	svc, store := fixture(t)
	b := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A", Locked: true})
	occ := store.addScheduled(model.ScheduledActivity{
		Block:     b,
		Cancelled: true,
		Activity:  model.Activity{ID: 500, Status: model.ActivityStatusDeleted},
	})
	if _, err := svc.AddUser(context.Background(), 1, occ, 1, false, false); !errors.Is(err, ErrBlockLocked) {
		t.Fatalf("AddUser() error = %v, want ErrBlockLocked", err)
	}
}

func TestAddUserCapacity(t *testing.T) {
	// Two rooms of capacity 2 and 3: effective capacity 5.  Five
	// distinct users fill the occurrence, the sixth is rejected, and an
	// admin force admits the sixth anyway.
	svc, store := fixture(t)
	b := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A"})
	occ := store.addScheduled(model.ScheduledActivity{
		Block: b,
		Activity: model.Activity{
			ID:     500,
			Status: model.ActivityStatusActive,
			Rooms:  []model.Room{{ID: 1, Capacity: 2}, {ID: 2, Capacity: 3}},
		},
	})

	for user := uint64(1); user <= 5; user++ {
		if _, err := svc.AddUser(context.Background(), user, occ, user, false, false); err != nil {
			t.Fatalf("AddUser(user=%d) error = %v", user, err)
		}
	}
	if _, err := svc.AddUser(context.Background(), 6, occ, 6, false, false); !errors.Is(err, ErrActivityFull) {
		t.Fatalf("AddUser(user=6) error = %v, want ErrActivityFull", err)
	}
	if _, err := svc.AddUser(context.Background(), 6, occ, 99, true, true); err != nil {
		t.Fatalf("forced AddUser(user=6) error = %v", err)
	}
	if n, _ := store.CountSignups(context.Background(), occ.ID); n != 6 {
		t.Fatalf("signup count = %d, want 6", n)
	}
}

func TestAddUserOneADay(t *testing.T) {
	// Chess Club is one-a-day and scheduled into both blocks of the
	// same date; joining the second block must fail with ErrOneADay.
	svc, store := fixture(t)
	chess := model.Activity{ID: 500, Name: "Chess Club", Status: model.ActivityStatusActive, OneADay: true}
	blockA := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A"})
	blockB := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "B"})
	occA := store.addScheduled(model.ScheduledActivity{Block: blockA, Activity: chess})
	occB := store.addScheduled(model.ScheduledActivity{Block: blockB, Activity: chess})

	if _, err := svc.AddUser(context.Background(), 1, occA, 1, false, false); err != nil {
		t.Fatalf("AddUser(block A) error = %v", err)
	}
	if _, err := svc.AddUser(context.Background(), 1, occB, 1, false, false); !errors.Is(err, ErrOneADay) {
		t.Fatalf("AddUser(block B) error = %v, want ErrOneADay", err)
	}
}

func TestAddUserSticky(t *testing.T) {
	svc, store := fixture(t)
	band := model.Activity{ID: 500, Name: "Jazz Band", Status: model.ActivityStatusActive, Sticky: true}
	club := model.Activity{ID: 501, Name: "Debate", Status: model.ActivityStatusActive}
	blockA := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A"})
	blockB := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "B"})
	occBand := store.addScheduled(model.ScheduledActivity{Block: blockA, Activity: band})
	occClub := store.addScheduled(model.ScheduledActivity{Block: blockB, Activity: club})

	if _, err := svc.AddUser(context.Background(), 1, occBand, 1, false, false); err != nil {
		t.Fatalf("AddUser(sticky) error = %v", err)
	}
	if _, err := svc.AddUser(context.Background(), 1, occClub, 1, false, false); !errors.Is(err, ErrSticky) {
		t.Fatalf("AddUser(other activity) error = %v, want ErrSticky", err)
	}
	// Re-requesting the sticky occurrence itself stays idempotent.
	if _, err := svc.AddUser(context.Background(), 1, occBand, 1, false, false); err != nil {
		t.Fatalf("AddUser(same sticky occurrence) error = %v", err)
	}
}

func TestAddUserTransfersWithinBlock(t *testing.T) {
	// A signup for occurrence X repoints to occurrence Y in the same
	// block, preserving the row's identity.
	svc, store := fixture(t)
	b := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A"})
	occX := store.addScheduled(model.ScheduledActivity{Block: b, Activity: model.Activity{ID: 500, Status: model.ActivityStatusActive}})
	occY := store.addScheduled(model.ScheduledActivity{Block: b, Activity: model.Activity{ID: 501, Status: model.ActivityStatusActive}})

	first, err := svc.AddUser(context.Background(), 1, occX, 1, false, false)
	if err != nil {
		t.Fatalf("AddUser(X) error = %v", err)
	}
	second, err := svc.AddUser(context.Background(), 1, occY, 1, false, false)
	if err != nil {
		t.Fatalf("AddUser(Y) error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("transfer created a new row: ids %d and %d", first.ID, second.ID)
	}
	if second.ScheduledID != occY.ID {
		t.Errorf("signup points at %d, want %d", second.ScheduledID, occY.ID)
	}
	if store.signupCount() != 1 {
		t.Errorf("store holds %d signups, want 1", store.signupCount())
	}
}

func TestAddUserIdempotent(t *testing.T) {
	svc, store := fixture(t)
	b := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A"})
	occ := store.addScheduled(model.ScheduledActivity{Block: b, Activity: model.Activity{ID: 500, Status: model.ActivityStatusActive}})

	first, err := svc.AddUser(context.Background(), 1, occ, 1, false, false)
	if err != nil {
		t.Fatalf("first AddUser() error = %v", err)
	}
	second, err := svc.AddUser(context.Background(), 1, occ, 1, false, false)
	if err != nil {
		t.Fatalf("second AddUser() error = %v", err)
	}
	if first.ID != second.ID || store.signupCount() != 1 {
		t.Errorf("idempotent call duplicated the signup: ids %d/%d, rows %d",
			first.ID, second.ID, store.signupCount())
	}
}

func TestAddUserRecoversFromInsertRace(t *testing.T) {
	// Simulate losing the insert race: a competing signup lands between
	// the existence check and the insert.  The controller must retry
	// and transfer the competing row instead of failing.
	svc, store := fixture(t)
	b := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A"})
	occX := store.addScheduled(model.ScheduledActivity{Block: b, Activity: model.Activity{ID: 500, Status: model.ActivityStatusActive}})
	occY := store.addScheduled(model.ScheduledActivity{Block: b, Activity: model.Activity{ID: 501, Status: model.ActivityStatusActive}})

	store.beforeCreate = func() {
		race := &model.Signup{UserID: 1, ScheduledID: occX.ID, BlockID: b.ID}
		if err := store.CreateSignup(context.Background(), race); err != nil {
			t.Fatalf("competing CreateSignup() error = %v", err)
		}
	}
	got, err := svc.AddUser(context.Background(), 1, occY, 1, false, false)
	if err != nil {
		t.Fatalf("AddUser() error = %v", err)
	}
	if got.ScheduledID != occY.ID {
		t.Errorf("signup points at %d, want %d", got.ScheduledID, occY.ID)
	}
	if store.signupCount() != 1 {
		t.Errorf("store holds %d signups, want 1", store.signupCount())
	}
}

func TestAddUserForceRespectsUniqueness(t *testing.T) {
	svc, store := fixture(t)
	b := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A", Locked: true})
	occX := store.addScheduled(model.ScheduledActivity{Block: b, Activity: model.Activity{ID: 500, Status: model.ActivityStatusActive}})
	occY := store.addScheduled(model.ScheduledActivity{Block: b, Activity: model.Activity{ID: 501, Status: model.ActivityStatusActive}})

	// force from a non-admin is ignored and the lock applies
	if _, err := svc.AddUser(context.Background(), 1, occX, 1, false, true); !errors.Is(err, ErrBlockLocked) {
		t.Fatalf("non-admin force error = %v, want ErrBlockLocked", err)
	}
	// admin force bypasses the lock and records the late signup
	got, err := svc.AddUser(context.Background(), 1, occX, 99, true, true)
	if err != nil {
		t.Fatalf("admin force error = %v", err)
	}
	if !got.AfterDeadline {
		t.Error("forced signup into a locked block should be marked after-deadline")
	}
	// a second force into the same block transfers, never duplicates
	if _, err := svc.AddUser(context.Background(), 1, occY, 99, true, true); err != nil {
		t.Fatalf("second admin force error = %v", err)
	}
	if store.signupCount() != 1 {
		t.Errorf("store holds %d signups, want 1", store.signupCount())
	}
}

func TestAddUserConcurrentSameBlock(t *testing.T) {
	// Concurrent attempts by one user across occurrences of a single
	// block must leave exactly one signup row.
	svc, store := fixture(t)
	b := store.addBlock(model.Block{Date: date(2024, 1, 10), Letter: "A"})
	occs := make([]*model.ScheduledActivity, 0, 4)
	for i := uint64(0); i < 4; i++ {
		occs = append(occs, store.addScheduled(model.ScheduledActivity{
			Block:    b,
			Activity: model.Activity{ID: 500 + i, Status: model.ActivityStatusActive},
		}))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.AddUser(context.Background(), 1, occs[n%len(occs)], 1, false, false)
			if err != nil {
				t.Errorf("AddUser() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if store.signupCount() != 1 {
		t.Errorf("store holds %d signups, want 1", store.signupCount())
	}
}
