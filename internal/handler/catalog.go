package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-reservation/internal/model"
	"github.com/iliyamo/coworking-reservation/internal/repository"
)

// CatalogHandler serves customers, rooms and the shift catalog.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
	// Invalidate, when set, runs after a room is added so cached
	// availability picks it up.
	Invalidate func(ctx context.Context) error
}

func NewCatalogHandler(catalog *repository.CatalogRepo, invalidate func(ctx context.Context) error) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Invalidate: invalidate}
}

type customerReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type roomReq struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// ListShifts handles GET /v1/shifts.
func (h *CatalogHandler) ListShifts(c echo.Context) error {
	out := make([]model.ShiftInfo, 0, 3)
	for _, s := range model.Shifts() {
		out = append(out, s.Info())
	}
	return c.JSON(http.StatusOK, out)
}

// ListCustomers handles GET /v1/customers.
func (h *CatalogHandler) ListCustomers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Catalog.ListCustomers(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateCustomer handles POST /v1/customers.
func (h *CatalogHandler) CreateCustomer(c echo.Context) error {
	var req customerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cust, err := model.NewCustomer(req.FirstName, req.LastName)
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	cust, err = h.Catalog.CreateCustomer(ctx, cust)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cust)
}

// ListRooms handles GET /v1/rooms.
func (h *CatalogHandler) ListRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Catalog.ListRooms(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateRoom handles POST /v1/rooms.
func (h *CatalogHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	room, err := model.NewRoom(req.Name, req.Capacity)
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	room, err = h.Catalog.CreateRoom(ctx, room)
	if err != nil {
		return writeError(c, err)
	}
	if h.Invalidate != nil {
		if err := h.Invalidate(ctx); err != nil {
			log.Printf("catalog: cache purge after room %d: %v", room.ID, err)
		}
	}
	return c.JSON(http.StatusCreated, room)
}
