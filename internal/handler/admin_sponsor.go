package handler // handler package contains admin sponsor handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/model"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
)

// CreateSponsor handles POST /v1/sponsors and registers a faculty sponsor.
func (h *AdminHandler) CreateSponsor(c echo.Context) error {
	var body struct {
		FirstName        string  `json:"first_name" validate:"required,max=100"`
		LastName         string  `json:"last_name" validate:"required,max=100"`
		UserID           *uint64 `json:"user_id"`
		OnlineAttendance *bool   `json:"online_attendance"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	s := &model.Sponsor{
		FirstName:        strings.TrimSpace(body.FirstName),
		LastName:         strings.TrimSpace(body.LastName),
		UserID:           body.UserID,
		OnlineAttendance: true,
	}
	if body.OnlineAttendance != nil {
		s.OnlineAttendance = *body.OnlineAttendance
	}
	if err := h.SponsorRepo.Create(c.Request().Context(), s); err != nil {
		if errors.Is(err, repository.ErrSponsorExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sponsor already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create sponsor"})
	}
	return c.JSON(http.StatusCreated, toSponsorResp(*s))
}

// ListSponsors handles GET /v1/sponsors.
func (h *AdminHandler) ListSponsors(c echo.Context) error {
	items, err := h.SponsorRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]sponsorResp, 0, len(items))
	for _, s := range items {
		out = append(out, toSponsorResp(*s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateSponsor handles PUT/PATCH /v1/sponsors/:id.
func (h *AdminHandler) UpdateSponsor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cur, err := h.SponsorRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSponsorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sponsor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		FirstName        *string `json:"first_name" validate:"omitempty,max=100"`
		LastName         *string `json:"last_name" validate:"omitempty,max=100"`
		UserID           *uint64 `json:"user_id"`
		OnlineAttendance *bool   `json:"online_attendance"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	if body.FirstName != nil && strings.TrimSpace(*body.FirstName) != "" {
		cur.FirstName = strings.TrimSpace(*body.FirstName)
	}
	if body.LastName != nil && strings.TrimSpace(*body.LastName) != "" {
		cur.LastName = strings.TrimSpace(*body.LastName)
	}
	if body.UserID != nil {
		cur.UserID = body.UserID
	}
	if body.OnlineAttendance != nil {
		cur.OnlineAttendance = *body.OnlineAttendance
	}
	if err := h.SponsorRepo.Update(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrSponsorExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sponsor name already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toSponsorResp(*cur))
}

// DeleteSponsor handles DELETE /v1/sponsors/:id.  A sponsor still
// referenced by an activity or occurrence cannot be removed.
func (h *AdminHandler) DeleteSponsor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.SponsorRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrSponsorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sponsor not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sponsor is assigned to an activity"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
