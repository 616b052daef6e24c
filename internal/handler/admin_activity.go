package handler // handler package contains admin activity handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/model"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
)

// CreateActivity handles POST /v1/activities and registers a new
// elective in the catalog.
func (h *AdminHandler) CreateActivity(c echo.Context) error {
	var body struct {
		Name        string   `json:"name" validate:"required,max=100"`
		Description string   `json:"description"`
		Restricted  bool     `json:"restricted"`
		Presign     bool     `json:"presign"`
		OneADay     bool     `json:"one_a_day"`
		BothBlocks  bool     `json:"both_blocks"`
		Sticky      bool     `json:"sticky"`
		Special     bool     `json:"special"`
		SponsorIDs  []uint64 `json:"sponsor_ids"`
		RoomIDs     []uint64 `json:"room_ids"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	a := &model.Activity{
		Name:        strings.TrimSpace(body.Name),
		Description: strings.TrimSpace(body.Description),
		Restricted:  body.Restricted,
		Presign:     body.Presign,
		OneADay:     body.OneADay,
		BothBlocks:  body.BothBlocks,
		Sticky:      body.Sticky,
		Special:     body.Special,
	}
	ctx := c.Request().Context()
	if err := h.ActivityRepo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrActivityExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "activity already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create activity"})
	}
	if len(body.SponsorIDs) > 0 {
		if err := h.ActivityRepo.SetSponsors(ctx, a.ID, body.SponsorIDs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not assign sponsors"})
		}
	}
	if len(body.RoomIDs) > 0 {
		if err := h.ActivityRepo.SetRooms(ctx, a.ID, body.RoomIDs); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not assign rooms"})
		}
	}
	fresh, err := h.ActivityRepo.GetByID(ctx, a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, toActivityResp(fresh))
}

// GetActivity handles GET /v1/activities/:id.  Deleted activities are
// still returned so historical occurrences stay inspectable.
func (h *AdminHandler) GetActivity(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	a, err := h.ActivityRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toActivityResp(a))
}

// ListActivities handles GET /v1/activities.  Supports ?q= name
// filtering and ?include_deleted=true for admin audits.
func (h *AdminHandler) ListActivities(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	includeDeleted := c.QueryParam("include_deleted") == "true"
	items, err := h.ActivityRepo.List(c.Request().Context(), query, includeDeleted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]activityResp, 0, len(items))
	for _, a := range items {
		out = append(out, toActivityResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateActivity handles PUT/PATCH /v1/activities/:id.
func (h *AdminHandler) UpdateActivity(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	cur, err := h.ActivityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name        *string `json:"name" validate:"omitempty,max=100"`
		Description *string `json:"description"`
		Restricted  *bool   `json:"restricted"`
		Presign     *bool   `json:"presign"`
		OneADay     *bool   `json:"one_a_day"`
		BothBlocks  *bool   `json:"both_blocks"`
		Sticky      *bool   `json:"sticky"`
		Special     *bool   `json:"special"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Description != nil {
		cur.Description = strings.TrimSpace(*body.Description)
	}
	if body.Restricted != nil {
		cur.Restricted = *body.Restricted
	}
	if body.Presign != nil {
		cur.Presign = *body.Presign
	}
	if body.OneADay != nil {
		cur.OneADay = *body.OneADay
	}
	if body.BothBlocks != nil {
		cur.BothBlocks = *body.BothBlocks
	}
	if body.Sticky != nil {
		cur.Sticky = *body.Sticky
	}
	if body.Special != nil {
		cur.Special = *body.Special
	}
	if err := h.ActivityRepo.Update(ctx, cur); err != nil {
		if errors.Is(err, repository.ErrActivityExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "activity name already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toActivityResp(cur))
}

// DeleteActivity handles DELETE /v1/activities/:id.  The activity is
// soft-deleted: existing occurrences and signups keep their history,
// but new signups are rejected by the admission controller.
func (h *AdminHandler) DeleteActivity(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.ActivityRepo.SoftDelete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RestoreActivity handles POST /v1/activities/:id/restore and brings
// a soft-deleted activity back into the catalog.
func (h *AdminHandler) RestoreActivity(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.ActivityRepo.Restore(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore failed"})
	}
	a, err := h.ActivityRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toActivityResp(a))
}

// SetActivitySponsors handles PUT /v1/activities/:id/sponsors and
// replaces the activity's default sponsor set.
func (h *AdminHandler) SetActivitySponsors(c echo.Context) error {
	return h.setActivityAssignments(c, h.ActivityRepo.SetSponsors)
}

// SetActivityRooms handles PUT /v1/activities/:id/rooms and replaces
// the activity's default room set.
func (h *AdminHandler) SetActivityRooms(c echo.Context) error {
	return h.setActivityAssignments(c, h.ActivityRepo.SetRooms)
}

func (h *AdminHandler) setActivityAssignments(c echo.Context, set func(ctx context.Context, activityID uint64, ids []uint64) error) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		IDs []uint64 `json:"ids" validate:"required"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.ActivityRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := set(ctx, id, body.IDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assignment failed"})
	}
	fresh, err := h.ActivityRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toActivityResp(fresh))
}
