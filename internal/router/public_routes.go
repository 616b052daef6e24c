package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The PublicHandler returns sanitized schedule data for
// guests; no JWT or role middleware applies.  Extra middleware (such as
// the Redis response cache) can be passed in and is applied to every
// public route.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	// Full block timeline
	e.GET("/v1/blocks", p.GetBlocks, mw...)
	// Blocks surrounding the first upcoming block; after 17:00 the
	// schedule rolls over to the next day
	e.GET("/v1/blocks/current", p.GetCurrentBlocks, mw...)
	// The first block still open for signups
	e.GET("/v1/blocks/upcoming", p.GetUpcomingBlock, mw...)
	// Activities scheduled into a block with effective capacity and
	// current signup counts
	e.GET("/v1/blocks/:id/activities", p.GetBlockActivities, mw...)
}
