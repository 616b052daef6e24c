package handler // handler package contains admin room handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/model"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
)

// CreateRoom handles POST /v1/rooms.  A capacity of -1 marks the room
// as unrestricted.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var body struct {
		Name     string `json:"name" validate:"required,max=100"`
		Capacity *int   `json:"capacity" validate:"omitempty,min=-1"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	rm := &model.Room{Name: strings.TrimSpace(body.Name), Capacity: 28}
	if body.Capacity != nil {
		rm.Capacity = *body.Capacity
	}
	if err := h.RoomRepo.Create(c.Request().Context(), rm); err != nil {
		if errors.Is(err, repository.ErrRoomExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
	}
	return c.JSON(http.StatusCreated, toRoomResp(*rm))
}

// ListRooms handles GET /v1/rooms.
func (h *AdminHandler) ListRooms(c echo.Context) error {
	items, err := h.RoomRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]roomResp, 0, len(items))
	for _, r := range items {
		out = append(out, toRoomResp(*r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateRoom handles PUT/PATCH /v1/rooms/:id.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cur, err := h.RoomRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var body struct {
		Name     *string `json:"name" validate:"omitempty,max=100"`
		Capacity *int    `json:"capacity" validate:"omitempty,min=-1"`
	}
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
		cur.Name = strings.TrimSpace(*body.Name)
	}
	if body.Capacity != nil {
		cur.Capacity = *body.Capacity
	}
	if err := h.RoomRepo.Update(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrRoomExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room name already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(*cur))
}

// DeleteRoom handles DELETE /v1/rooms/:id.  A room still referenced
// by an activity or occurrence cannot be removed.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.RoomRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is assigned to an activity"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
