package handler // handler package contains admin scheduling handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/model"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
)

// ScheduleActivity handles POST /v1/blocks/:id/activities and places
// an activity into a block.  Each (block, activity) pair may be
// scheduled at most once.
func (h *AdminHandler) ScheduleActivity(c echo.Context) error {
	blockID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		ActivityID uint64 `json:"activity_id" validate:"required"`
		Comments   string `json:"comments"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.BlockRepo.GetByID(ctx, blockID); err != nil {
		if errors.Is(err, repository.ErrBlockNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	act, err := h.ActivityRepo.GetByID(ctx, body.ActivityID)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if act.Deleted() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "activity is deleted"})
	}
	sa := &model.ScheduledActivity{
		BlockID:    blockID,
		ActivityID: body.ActivityID,
		Comments:   strings.TrimSpace(body.Comments),
	}
	if err := h.ScheduledRepo.Create(ctx, sa); err != nil {
		if errors.Is(err, repository.ErrScheduledExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "activity already scheduled in block"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not schedule activity"})
	}
	fresh, err := h.ScheduledRepo.GetByID(ctx, sa.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, toScheduledResp(fresh, nil))
}

// GetScheduled handles GET /v1/scheduled/:id and returns a single
// occurrence with effective sponsors, rooms and capacity resolved.
func (h *AdminHandler) GetScheduled(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sa, err := h.ScheduledRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduledNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toScheduledResp(sa, nil))
}

// UpdateScheduled handles PUT/PATCH /v1/scheduled/:id.  Comments, the
// capacity override, cancellation and attendance flags are mutable.
// Setting clear_capacity drops the override back to inherit (a JSON
// null capacity is indistinguishable from an absent field).
func (h *AdminHandler) UpdateScheduled(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	cur, err := h.ScheduledRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduledNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Comments        *string `json:"comments"`
		Capacity        *int    `json:"capacity" validate:"omitempty,min=-1"`
		ClearCapacity   bool    `json:"clear_capacity"`
		Cancelled       *bool   `json:"cancelled"`
		AttendanceTaken *bool   `json:"attendance_taken"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	if body.Comments != nil {
		cur.Comments = strings.TrimSpace(*body.Comments)
	}
	if body.ClearCapacity {
		cur.Capacity = nil
	} else if body.Capacity != nil {
		cur.Capacity = body.Capacity
	}
	if body.Cancelled != nil {
		cur.Cancelled = *body.Cancelled
	}
	if body.AttendanceTaken != nil {
		cur.AttendanceTaken = *body.AttendanceTaken
	}
	if err := h.ScheduledRepo.Update(ctx, cur); err != nil {
		if errors.Is(err, repository.ErrScheduledNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	fresh, err := h.ScheduledRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toScheduledResp(fresh, nil))
}

// SetScheduledSponsors handles PUT /v1/scheduled/:id/sponsors.  The
// body's overridden flag distinguishes clearing the override (the
// activity defaults apply again) from overriding to an explicit set,
// which may legitimately be empty.
func (h *AdminHandler) SetScheduledSponsors(c echo.Context) error {
	return h.setScheduledOverride(c, h.ScheduledRepo.SetSponsorOverride)
}

// SetScheduledRooms handles PUT /v1/scheduled/:id/rooms with the same
// override semantics as SetScheduledSponsors.
func (h *AdminHandler) SetScheduledRooms(c echo.Context) error {
	return h.setScheduledOverride(c, h.ScheduledRepo.SetRoomOverride)
}

func (h *AdminHandler) setScheduledOverride(c echo.Context, set func(ctx context.Context, scheduledID uint64, ids []uint64, overridden bool) error) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Overridden bool     `json:"overridden"`
		IDs        []uint64 `json:"ids"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := set(ctx, id, body.IDs, body.Overridden); err != nil {
		if errors.Is(err, repository.ErrScheduledNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "override failed"})
	}
	fresh, err := h.ScheduledRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toScheduledResp(fresh, nil))
}
