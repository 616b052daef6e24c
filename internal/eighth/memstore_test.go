package eighth

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// memStore is an in-memory Store used by the tests in this package.
// It enforces the same (user, block) uniqueness the MySQL schema
// does, and mirrors the date join performed by the SQL store.
type memStore struct {
	mu        sync.Mutex
	blocks    []model.Block
	scheduled map[uint64]*model.ScheduledActivity
	signups   map[uint64]*model.Signup
	nextID    uint64

	// beforeCreate, when set, runs inside CreateSignup ahead of the
	// uniqueness check.  Tests use it to inject a competing insert.
	beforeCreate func()
}

func newMemStore() *memStore {
	return &memStore{
		scheduled: make(map[uint64]*model.ScheduledActivity),
		signups:   make(map[uint64]*model.Signup),
	}
}

func (m *memStore) addBlock(b model.Block) model.Block {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	m.blocks = append(m.blocks, b)
	return b
}

func (m *memStore) addScheduled(sa model.ScheduledActivity) *model.ScheduledActivity {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	sa.ID = m.nextID
	sa.BlockID = sa.Block.ID
	sa.ActivityID = sa.Activity.ID
	m.scheduled[sa.ID] = &sa
	return &sa
}

func (m *memStore) AllBlocks(_ context.Context) ([]model.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Block, len(m.blocks))
	copy(out, m.blocks)
	SortBlocks(out)
	return out, nil
}

func (m *memStore) SignupForUserBlock(_ context.Context, userID, blockID uint64) (*model.Signup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.signups {
		if s.UserID == userID && s.BlockID == blockID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) SignupsForUserOnDate(_ context.Context, userID uint64, date time.Time) ([]DateSignup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := date.Truncate(24 * time.Hour)
	var out []DateSignup
	for _, s := range m.signups {
		sa, ok := m.scheduled[s.ScheduledID]
		if !ok || s.UserID != userID {
			continue
		}
		if !sa.Block.Date.Truncate(24 * time.Hour).Equal(day) {
			continue
		}
		out = append(out, DateSignup{
			SignupID:    s.ID,
			ScheduledID: sa.ID,
			BlockID:     sa.BlockID,
			ActivityID:  sa.ActivityID,
			Sticky:      sa.Activity.Sticky,
		})
	}
	return out, nil
}

func (m *memStore) CountSignups(_ context.Context, scheduledID uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.signups {
		if s.ScheduledID == scheduledID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateSignup(_ context.Context, s *model.Signup) error {
	if m.beforeCreate != nil {
		hook := m.beforeCreate
		m.beforeCreate = nil
		hook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.signups {
		if existing.UserID == s.UserID && existing.BlockID == s.BlockID {
			return ErrDuplicateSignup
		}
	}
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.signups[s.ID] = &cp
	return nil
}

func (m *memStore) TransferSignup(_ context.Context, signupID, scheduledID uint64, afterDeadline bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.signups[signupID]
	if !ok {
		return ErrDuplicateSignup
	}
	s.ScheduledID = scheduledID
	if sa, ok := m.scheduled[scheduledID]; ok {
		s.BlockID = sa.BlockID
	}
	if afterDeadline {
		s.AfterDeadline = true
	}
	return nil
}

// signupCount reports the total number of signup rows held by the
// store, for asserting the uniqueness invariant.
func (m *memStore) signupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.signups)
}
