package eighth

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// createRetries bounds the duplicate-key retry loop in the transfer
// step.  One retry is enough to recover from a lost insert race; the
// extra attempt covers the row being deleted in between.
const createRetries = 3

// Service is the signup admission controller.  It evaluates the
// ordered rule chain against a scheduled occurrence and performs the
// transfer-or-create signup mutation.  All time arithmetic goes
// through the injected Clock.
type Service struct {
	store Store
	clock Clock
}

// NewService constructs a Service.  Both dependencies must be non-nil.
func NewService(store Store, clock Clock) *Service {
	if store == nil || clock == nil {
		panic("nil dependency passed to eighth.NewService")
	}
	return &Service{store: store, clock: clock}
}

// admission carries the per-request state threaded through the rule
// chain, including the lazily fetched same-date signups consulted by
// the sticky and one-a-day rules.
type admission struct {
	userID     uint64
	occ        *model.ScheduledActivity
	actorID    uint64
	actorAdmin bool

	dateSignups []DateSignup
	dateLoaded  bool
}

// sameDateSignups returns the target user's signups on the block's
// calendar date, fetching them at most once per admission.
func (a *admission) sameDateSignups(ctx context.Context, s *Service) ([]DateSignup, error) {
	if !a.dateLoaded {
		signups, err := s.store.SignupsForUserOnDate(ctx, a.userID, a.occ.Block.Date)
		if err != nil {
			return nil, err
		}
		a.dateSignups = signups
		a.dateLoaded = true
	}
	return a.dateSignups, nil
}

// rule is one named predicate in the admission chain.  A rule returns
// its rejection sentinel when violated, nil when satisfied, and any
// other error only on store failure.
type rule struct {
	name  string
	check func(ctx context.Context, s *Service, a *admission) error
}

// signupRules is the admission chain in evaluation order.  The first
// violated rule wins; later rules are never consulted.  Order is
// load-bearing: cheap flag checks come before store-backed ones, and
// the reported reason must match the earliest violated constraint.
var signupRules = []rule{
	{"actor allowed", func(_ context.Context, _ *Service, a *admission) error {
		if a.actorID != a.userID && !a.actorAdmin {
			return ErrSignupForbidden
		}
		return nil
	}},
	{"block unlocked", func(_ context.Context, _ *Service, a *admission) error {
		if a.occ.Block.Locked {
			return ErrBlockLocked
		}
		return nil
	}},
	{"not cancelled", func(_ context.Context, _ *Service, a *admission) error {
		if a.occ.Cancelled {
			return ErrActivityCancelled
		}
		return nil
	}},
	{"activity not deleted", func(_ context.Context, _ *Service, a *admission) error {
		if a.occ.Activity.Deleted() {
			return ErrActivityDeleted
		}
		return nil
	}},
	{"not full", func(ctx context.Context, s *Service, a *admission) error {
		full, err := s.IsFull(ctx, a.occ)
		if err != nil {
			return err
		}
		if full {
			return ErrActivityFull
		}
		return nil
	}},
	{"presign window open", func(_ context.Context, s *Service, a *admission) error {
		if a.occ.Activity.Presign && a.occ.IsTooEarly(s.clock.Now()) {
			return ErrPresignTooEarly
		}
		return nil
	}},
	{"not stickied", func(ctx context.Context, s *Service, a *admission) error {
		signups, err := a.sameDateSignups(ctx, s)
		if err != nil {
			return err
		}
		for _, ds := range signups {
			// A sticky signup for the requested occurrence itself is not a
			// conflict; re-requesting it must stay idempotent.
			if ds.Sticky && ds.ScheduledID != a.occ.ID {
				return ErrSticky
			}
		}
		return nil
	}},
	{"one a day", func(ctx context.Context, s *Service, a *admission) error {
		if !a.occ.Activity.OneADay {
			return nil
		}
		signups, err := a.sameDateSignups(ctx, s)
		if err != nil {
			return err
		}
		for _, ds := range signups {
			if ds.ActivityID == a.occ.ActivityID && ds.BlockID != a.occ.BlockID {
				return ErrOneADay
			}
		}
		return nil
	}},
}

// AddUser enrolls a user into a scheduled occurrence, or rejects the
// request with the first violated rule's sentinel error.  The
// occurrence must be loaded with its block and activity.  force
// bypasses every rule but is honored only for admin actors; the
// per-(user, block) uniqueness invariant is never bypassed.  On
// success exactly one signup row has been created or repointed and
// the resulting signup is returned.
func (s *Service) AddUser(ctx context.Context, userID uint64, occ *model.ScheduledActivity, actorID uint64, actorIsAdmin, force bool) (*model.Signup, error) {
	force = force && actorIsAdmin
	if !force {
		a := &admission{userID: userID, occ: occ, actorID: actorID, actorAdmin: actorIsAdmin}
		for _, r := range signupRules {
			if err := r.check(ctx, s, a); err != nil {
				return nil, err
			}
		}
	}

	// Transfer step.  Runs even under force: an existing signup in the
	// block is repointed in place so the row's identity survives, and a
	// lost insert race against the unique (user, block) index is
	// converted into a transfer on retry.
	afterDeadline := occ.Block.Locked
	for attempt := 0; attempt < createRetries; attempt++ {
		existing, err := s.store.SignupForUserBlock(ctx, userID, occ.BlockID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.ScheduledID == occ.ID {
				return existing, nil
			}
			if err := s.store.TransferSignup(ctx, existing.ID, occ.ID, afterDeadline); err != nil {
				return nil, err
			}
			existing.ScheduledID = occ.ID
			if afterDeadline {
				existing.AfterDeadline = true
			}
			return existing, nil
		}
		signup := &model.Signup{
			UserID:        userID,
			ScheduledID:   occ.ID,
			BlockID:       occ.BlockID,
			AfterDeadline: afterDeadline,
		}
		err = s.store.CreateSignup(ctx, signup)
		if err == nil {
			return signup, nil
		}
		if !errors.Is(err, ErrDuplicateSignup) {
			return nil, err
		}
		// A concurrent signup for the same block won the insert; loop to
		// pick it up and transfer it instead.
	}
	return nil, fmt.Errorf("signup for user %d block %d: retries exhausted", userID, occ.BlockID)
}

// IsFull reports whether the occurrence's effective capacity is
// exhausted by its current signup count.
func (s *Service) IsFull(ctx context.Context, occ *model.ScheduledActivity) (bool, error) {
	if occ.EffectiveCapacity() == model.UnlimitedCapacity {
		return false, nil
	}
	count, err := s.store.CountSignups(ctx, occ.ID)
	if err != nil {
		return false, err
	}
	return occ.IsFull(count), nil
}

// FirstUpcomingBlock returns the earliest block still considered
// upcoming relative to the service clock, or nil when none exists.
func (s *Service) FirstUpcomingBlock(ctx context.Context) (*model.Block, error) {
	blocks, err := s.store.AllBlocks(ctx)
	if err != nil {
		return nil, err
	}
	return FirstUpcomingBlock(blocks, s.clock.Now()), nil
}

// CurrentBlocks returns the timeline surrounding the first upcoming
// block, empty when no block is upcoming.
func (s *Service) CurrentBlocks(ctx context.Context) ([]model.Block, error) {
	blocks, err := s.store.AllBlocks(ctx)
	if err != nil {
		return nil, err
	}
	return CurrentBlocks(blocks, s.clock.Now()), nil
}
