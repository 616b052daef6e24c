package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/eighth"
	"github.com/iliyamo/eighth-period-signup/internal/model"
	"github.com/iliyamo/eighth-period-signup/internal/queue"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
	queue_publisher "github.com/iliyamo/eighth-period-signup/internal/service"
)

// SignupHandler wires the signup admission controller to the HTTP
// surface.  All methods assume JWT authentication has already run;
// the admission controller re-checks actor permissions itself, so a
// student cannot enroll anyone but themselves even if a request
// names another user.
type SignupHandler struct {
	Service       *eighth.Service           // admission controller
	SignupRepo    *repository.SignupRepo    // signup persistence and listings
	ScheduledRepo *repository.ScheduledRepo // occurrence loading
	BlockRepo     *repository.BlockRepo     // block lookups for withdrawals
	AbsenceRepo   *repository.AbsenceRepo   // absence listings
}

// NewSignupHandler constructs a SignupHandler with the provided
// dependencies.  All dependencies must be non-nil.
func NewSignupHandler(svc *eighth.Service, signupRepo *repository.SignupRepo, scheduledRepo *repository.ScheduledRepo, blockRepo *repository.BlockRepo, absenceRepo *repository.AbsenceRepo) *SignupHandler {
	if svc == nil || signupRepo == nil || scheduledRepo == nil || blockRepo == nil || absenceRepo == nil {
		panic("nil dependency passed to NewSignupHandler")
	}
	return &SignupHandler{
		Service:       svc,
		SignupRepo:    signupRepo,
		ScheduledRepo: scheduledRepo,
		BlockRepo:     blockRepo,
		AbsenceRepo:   absenceRepo,
	}
}

// CreateSignup handles POST /v1/signups.  A student enrolls
// themselves into a scheduled occurrence; an admin may additionally
// name another user and set force to bypass the rule checks.  A
// signup that already exists for the same block is transferred to the
// new occurrence rather than duplicated, and re-requesting the same
// occurrence succeeds without change.
func (h *SignupHandler) CreateSignup(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ScheduledID uint64  `json:"scheduled_activity_id" validate:"required"`
		UserID      *uint64 `json:"user_id"`
		Force       bool    `json:"force"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	targetID := actorID
	if body.UserID != nil && *body.UserID != 0 {
		targetID = *body.UserID
	}

	ctx := c.Request().Context()
	occ, err := h.ScheduledRepo.GetByID(ctx, body.ScheduledID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduledNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	signup, err := h.Service.AddUser(ctx, targetID, occ, actorID, isAdmin(c), body.Force)
	if err != nil {
		return signupError(c, err)
	}

	// Notify downstream consumers; delivery failures never affect the
	// response.
	go publishSignupConfirmed(signup, occ, body.Force)

	return c.JSON(http.StatusCreated, echo.Map{
		"signup_id":             signup.ID,
		"user_id":               signup.UserID,
		"scheduled_activity_id": signup.ScheduledID,
		"block_id":              signup.BlockID,
		"after_deadline":        signup.AfterDeadline,
	})
}

// signupError converts an admission rejection into an HTTP response.
// Each rule has its own reason string so clients can explain the
// earliest violated constraint.
func signupError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, eighth.ErrSignupForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot sign up another user"})
	case errors.Is(err, eighth.ErrBlockLocked):
		return c.JSON(http.StatusConflict, echo.Map{"error": "block is locked"})
	case errors.Is(err, eighth.ErrActivityCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "activity is cancelled for this block"})
	case errors.Is(err, eighth.ErrActivityDeleted):
		return c.JSON(http.StatusConflict, echo.Map{"error": "activity has been deleted"})
	case errors.Is(err, eighth.ErrActivityFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": "activity is full"})
	case errors.Is(err, eighth.ErrPresignTooEarly):
		return c.JSON(http.StatusConflict, echo.Map{"error": "signup opens two days before the block"})
	case errors.Is(err, eighth.ErrSticky):
		return c.JSON(http.StatusConflict, echo.Map{"error": "stuck in a sticky activity for this day"})
	case errors.Is(err, eighth.ErrOneADay):
		return c.JSON(http.StatusConflict, echo.Map{"error": "activity allows only one signup per day"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}
}

func publishSignupConfirmed(signup *model.Signup, occ *model.ScheduledActivity, forced bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rooms := occ.EffectiveRooms()
	roomNames := make([]string, 0, len(rooms))
	for _, r := range rooms {
		roomNames = append(roomNames, r.Name)
	}
	_ = queue_publisher.PublishSignupConfirmed(ctx, queue.SignupConfirmedEvent{
		SignupID:      signup.ID,
		UserID:        signup.UserID,
		ScheduledID:   signup.ScheduledID,
		ActivityID:    occ.ActivityID,
		ActivityName:  occ.Activity.Name,
		BlockID:       occ.BlockID,
		BlockDate:     occ.Block.Date.Format("2006-01-02"),
		BlockLetter:   occ.Block.Letter,
		Rooms:         roomNames,
		Forced:        forced,
		AfterDeadline: signup.AfterDeadline,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListMySignups handles GET /v1/my-signups and returns the current
// user's enrollments with activity and block context.
func (h *SignupHandler) ListMySignups(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.SignupRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load signups"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteSignup handles DELETE /v1/blocks/:id/signup and withdraws
// the current user from the block.  Withdrawal is refused once the
// block is locked.
func (h *SignupHandler) DeleteSignup(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blockID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	b, err := h.BlockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, repository.ErrBlockNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if b.Locked && !isAdmin(c) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "block is locked"})
	}
	if err := h.SignupRepo.Delete(ctx, userID, blockID); err != nil {
		if errors.Is(err, repository.ErrSignupNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no signup for this block"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "withdraw failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMyAbsences handles GET /v1/my-absences and returns the current
// user's absence records along with their running total.
func (h *SignupHandler) ListMyAbsences(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	items, err := h.AbsenceRepo.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load absences"})
	}
	count, err := h.AbsenceRepo.CountByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load absences"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": count})
}
