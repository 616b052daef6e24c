package handler // handler package contains admin block handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/eighth"
	"github.com/iliyamo/eighth-period-signup/internal/model"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
)

// CreateBlock handles POST /v1/blocks and adds a block to the
// schedule.  The date uses YYYY-MM-DD; (date, letter) is unique.
func (h *AdminHandler) CreateBlock(c echo.Context) error {
	var body struct {
		Date   string `json:"date" validate:"required"`
		Letter string `json:"block_letter" validate:"required,max=8"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	b := &model.Block{Date: date, Letter: body.Letter}
	if err := h.BlockRepo.Create(c.Request().Context(), b); err != nil {
		if errors.Is(err, repository.ErrBlockExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "block already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create block"})
	}
	return c.JSON(http.StatusCreated, toBlockResp(*b))
}

// SetBlockLock handles PUT /v1/blocks/:id/lock.  Locking a block
// closes it to normal signups; only admin-forced signups go through
// afterwards and are marked after_deadline.
func (h *AdminHandler) SetBlockLock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Locked *bool `json:"locked" validate:"required"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.BlockRepo.SetLocked(ctx, id, *body.Locked); err != nil {
		if errors.Is(err, repository.ErrBlockNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	b, err := h.BlockRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toBlockResp(*b))
}

// RecordAbsence handles POST /v1/blocks/:id/absences and marks a user
// absent for the block.  Absences are independent of signups.
func (h *AdminHandler) RecordAbsence(c echo.Context) error {
	blockID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		UserID uint64 `json:"user_id" validate:"required"`
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
	a := &model.Absence{BlockID: blockID, UserID: body.UserID}
	if err := h.AbsenceRepo.Create(ctx, a); err != nil {
		if errors.Is(err, eighth.ErrAbsenceExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "absence already recorded"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record absence"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":       a.ID,
		"block_id": a.BlockID,
		"user_id":  a.UserID,
	})
}

// ListBlockAbsences handles GET /v1/blocks/:id/absences.
func (h *AdminHandler) ListBlockAbsences(c echo.Context) error {
	blockID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.AbsenceRepo.ListByBlock(c.Request().Context(), blockID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
