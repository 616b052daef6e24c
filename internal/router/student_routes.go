package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eighth-period-signup/internal/handler"
	"github.com/iliyamo/eighth-period-signup/internal/middleware"
	"github.com/iliyamo/eighth-period-signup/internal/model"
)

// RegisterSignups registers the signup endpoints under /v1.  Both
// roles may call them: students act on themselves, admins may act on
// any student and force past the rule checks.
func RegisterSignups(e *echo.Echo, s *handler.SignupHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStudent, model.RoleAdmin),
	)

	g.POST("/signups", s.CreateSignup)
	g.GET("/my-signups", s.ListMySignups)
	g.DELETE("/blocks/:id/signup", s.DeleteSignup)
	g.GET("/my-absences", s.ListMyAbsences)
}
