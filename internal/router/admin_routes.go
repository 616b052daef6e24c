package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/handler"    // admin handlers
	"github.com/iliyamo/eighth-period-signup/internal/middleware" // JWT + role middlewares
	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Sponsors ----
	g.POST("/sponsors", a.CreateSponsor)
	g.GET("/sponsors", a.ListSponsors)
	g.PUT("/sponsors/:id", a.UpdateSponsor)
	g.PATCH("/sponsors/:id", a.UpdateSponsor)
	g.DELETE("/sponsors/:id", a.DeleteSponsor)

	// ---- Rooms ----
	g.POST("/rooms", a.CreateRoom)
	g.GET("/rooms", a.ListRooms)
	g.PUT("/rooms/:id", a.UpdateRoom)
	g.PATCH("/rooms/:id", a.UpdateRoom)
	g.DELETE("/rooms/:id", a.DeleteRoom)

	// ---- Activities ----
	g.POST("/activities", a.CreateActivity)
	g.GET("/activities", a.ListActivities)
	g.GET("/activities/:id", a.GetActivity)
	g.PUT("/activities/:id", a.UpdateActivity)
	g.PATCH("/activities/:id", a.UpdateActivity)
	g.DELETE("/activities/:id", a.DeleteActivity)
	g.POST("/activities/:id/restore", a.RestoreActivity)
	g.PUT("/activities/:id/sponsors", a.SetActivitySponsors)
	g.PUT("/activities/:id/rooms", a.SetActivityRooms)

	// ---- Blocks ----
	g.POST("/blocks", a.CreateBlock)
	// NOTE: Listing blocks is handled by the public browse API at
	// /v1/blocks; the admin surface reuses it.
	g.PUT("/blocks/:id/lock", a.SetBlockLock)
	g.POST("/blocks/:id/absences", a.RecordAbsence)
	g.GET("/blocks/:id/absences", a.ListBlockAbsences)

	// ---- Scheduling ----
	g.POST("/blocks/:id/activities", a.ScheduleActivity)
	g.GET("/scheduled/:id", a.GetScheduled)
	g.PUT("/scheduled/:id", a.UpdateScheduled)
	g.PATCH("/scheduled/:id", a.UpdateScheduled)
	g.PUT("/scheduled/:id/sponsors", a.SetScheduledSponsors)
	g.PUT("/scheduled/:id/rooms", a.SetScheduledRooms)
}
