package router // router registers the HTTP routes of the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seating/internal/handler"
	"github.com/iliyamo/exam-seating/internal/middleware"
	"github.com/iliyamo/exam-seating/internal/model"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the auth endpoints.  Register/login/refresh and
// logout are open; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	me.GET("/me", a.Me)
}

// RegisterAdmin wires the catalog management and seating generation
// endpoints, all requiring the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/buildings", h.CreateBuilding)
	g.PUT("/buildings/:id", h.UpdateBuilding)
	g.DELETE("/buildings/:id", h.DeleteBuilding)

	g.POST("/rooms", h.CreateRoom)
	g.PUT("/rooms/:id", h.UpdateRoom)
	g.DELETE("/rooms/:id", h.DeleteRoom)

	g.POST("/exams", h.CreateExam)
	g.PUT("/exams/:id", h.UpdateExam)
	g.DELETE("/exams/:id", h.DeleteExam)

	g.POST("/exams/:id/subjects", h.CreateSubject)
	g.DELETE("/subjects/:id", h.DeleteSubject)

	g.POST("/exams/:id/enrollments", h.EnrollStudent)
	g.GET("/exams/:id/enrollments", h.ListEnrollments)
	g.DELETE("/exams/:id/enrollments/:studentID", h.WithdrawStudent)

	g.POST("/exams/:id/seating", h.GenerateSeating)
	g.DELETE("/exams/:id/seating", h.ClearSeating)
}

// RegisterStaff wires the read endpoints shared by ADMIN and STAFF:
// catalog browsing, seating lists, room rosters and the invigilator's
// own rooms.  The response cache middleware is applied here so
// repeated seating reads are served from Redis.
func RegisterStaff(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStaff))
	if cache != nil {
		g.Use(cache)
	}

	g.GET("/buildings", h.ListBuildings)
	g.GET("/rooms", h.ListRooms)
	g.GET("/exams", h.ListExams)
	g.GET("/exams/:id", h.GetExam)
	g.GET("/exams/:id/seating", h.ListSeating)
	g.GET("/exams/:id/rooms/:roomID/roster", h.RoomRoster)
	g.GET("/exams/:id/my-rooms", h.MyRooms)
}
