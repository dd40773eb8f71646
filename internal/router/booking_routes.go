package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-reservation/internal/handler"
	"github.com/iliyamo/coworking-reservation/internal/middleware"
)

// Handlers groups the handlers mounted under /v1.
type Handlers struct {
	Catalog      *handler.CatalogHandler
	Reservations *handler.ReservationHandler
	Reports      *handler.ReportHandler
}

// RegisterBooking registers the staff API.  Every route requires a valid
// access token with the STAFF role.  cache wraps the read endpoints whose
// answers change only when a reservation or room does.
func RegisterBooking(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleStaff),
	)

	g.GET("/shifts", h.Catalog.ListShifts, cache)
	g.GET("/customers", h.Catalog.ListCustomers)
	g.POST("/customers", h.Catalog.CreateCustomer)
	g.GET("/rooms", h.Catalog.ListRooms)
	g.POST("/rooms", h.Catalog.CreateRoom)

	g.POST("/dates/check", h.Reservations.CheckDate)
	g.GET("/availability", h.Reservations.Availability, cache)

	g.POST("/reservations", h.Reservations.Create)
	g.GET("/reservations", h.Reservations.List)
	g.GET("/reservations/:folio", h.Reservations.Get)
	g.PATCH("/reservations/:folio", h.Reservations.Rename)
	g.POST("/reservations/:folio/cancel", h.Reservations.Cancel)

	g.GET("/reports", h.Reports.Daily, cache)
	g.GET("/reports/:date", h.Reports.Daily, cache)
}
