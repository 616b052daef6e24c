package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/eighth"
	"github.com/iliyamo/eighth-period-signup/internal/repository"
)

// PublicHandler exposes unauthenticated browse endpoints: the block
// timeline and per-block activity listings.  Guests can inspect the
// schedule before logging in to sign up.
type PublicHandler struct {
	Service       *eighth.Service
	BlockRepo     *repository.BlockRepo
	ScheduledRepo *repository.ScheduledRepo
}

// NewPublicHandler constructs a PublicHandler with the provided
// dependencies.  All dependencies must be non-nil.
func NewPublicHandler(svc *eighth.Service, blockRepo *repository.BlockRepo, scheduledRepo *repository.ScheduledRepo) *PublicHandler {
	if svc == nil || blockRepo == nil || scheduledRepo == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Service: svc, BlockRepo: blockRepo, ScheduledRepo: scheduledRepo}
}

// GetBlocks handles GET /v1/blocks and returns the whole block
// timeline ordered by date then letter.
func (h *PublicHandler) GetBlocks(c echo.Context) error {
	items, err := h.BlockRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]blockResp, 0, len(items))
	for _, b := range items {
		out = append(out, toBlockResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetCurrentBlocks handles GET /v1/blocks/current.  It returns every
// block sharing the first upcoming block's date plus the blocks
// immediately before and after that date.  After 17:00 the schedule
// rolls over to the next day.
func (h *PublicHandler) GetCurrentBlocks(c echo.Context) error {
	blocks, err := h.Service.CurrentBlocks(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]blockResp, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toBlockResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetUpcomingBlock handles GET /v1/blocks/upcoming and returns the
// first block still open for signups, or 404 when the schedule has
// run out.
func (h *PublicHandler) GetUpcomingBlock(c echo.Context) error {
	b, err := h.Service.FirstUpcomingBlock(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if b == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no upcoming block"})
	}
	return c.JSON(http.StatusOK, toBlockResp(*b))
}

// GetBlockActivities handles GET /v1/blocks/:id/activities.  Each
// occurrence is returned with its effective sponsors, rooms, capacity
// and current signup count so clients can render availability.
func (h *PublicHandler) GetBlockActivities(c echo.Context) error {
	blockID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if _, err := h.BlockRepo.GetByID(ctx, blockID); err != nil {
		if errors.Is(err, repository.ErrBlockNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	details, err := h.ScheduledRepo.ListByBlock(ctx, blockID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]scheduledResp, 0, len(details))
	for _, d := range details {
		count := d.SignupCount
		out = append(out, toScheduledResp(d.ScheduledActivity, &count))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
