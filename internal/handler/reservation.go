package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-reservation/internal/booking"
	"github.com/iliyamo/coworking-reservation/internal/model"
)

// ReservationHandler exposes the reservation ledger.  Dates are accepted as
// mm-dd-yyyy or yyyy-mm-dd and always returned as yyyy-mm-dd.
type ReservationHandler struct {
	Ledger *booking.Ledger
}

func NewReservationHandler(l *booking.Ledger) *ReservationHandler {
	return &ReservationHandler{Ledger: l}
}

type dateCheckReq struct {
	Date              string `json:"date"`
	AcceptAlternative *bool  `json:"accept_alternative"`
}

type dateCheckResp struct {
	Eligible      bool   `json:"eligible"`
	Date          string `json:"date,omitempty"`
	NeedsDecision bool   `json:"needs_decision,omitempty"`
	Alternative   string `json:"alternative,omitempty"`
}

type createReq struct {
	dateCheckReq
	RoomID     uint64 `json:"room_id"`
	ShiftID    uint64 `json:"shift_id"`
	CustomerID uint64 `json:"customer_id"`
	EventName  string `json:"event_name"`
}

type renameReq struct {
	EventName string `json:"event_name"`
}

type reservationResp struct {
	Folio      uint64 `json:"folio"`
	Date       string `json:"date"`
	RoomID     uint64 `json:"room_id"`
	ShiftID    uint8  `json:"shift_id"`
	Shift      string `json:"shift"`
	CustomerID uint64 `json:"customer_id"`
	EventName  string `json:"event_name"`
	CreatedAt  string `json:"created_at"`
	Status     string `json:"status"`
}

func toResp(r *model.Reservation) reservationResp {
	return reservationResp{
		Folio:      r.Folio,
		Date:       r.DateString(),
		RoomID:     r.RoomID,
		ShiftID:    r.Shift.ID(),
		Shift:      r.Shift.Label(),
		CustomerID: r.CustomerID,
		EventName:  r.EventName,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		Status:     string(r.Status),
	}
}

// checkDate runs the eligibility rules.  A Sunday without an answer yields
// a pending proposal rather than an error.
func (h *ReservationHandler) checkDate(req dateCheckReq) (time.Time, *dateCheckResp, error) {
	candidate, err := booking.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, nil, err
	}
	today := h.Ledger.Today()
	elig, err := booking.CheckDate(candidate, today)
	if err != nil {
		return time.Time{}, nil, err
	}
	if elig.NeedsDecision && req.AcceptAlternative == nil {
		return time.Time{}, &dateCheckResp{
			NeedsDecision: true,
			Alternative:   elig.Alternative.Format(model.DateLayout),
		}, nil
	}
	date, err := elig.Decide(req.AcceptAlternative != nil && *req.AcceptAlternative, today)
	if err != nil {
		return time.Time{}, nil, err
	}
	return date, nil, nil
}

// CheckDate handles POST /v1/dates/check.
func (h *ReservationHandler) CheckDate(c echo.Context) error {
	var req dateCheckReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, pending, err := h.checkDate(req)
	if err != nil {
		return writeError(c, err)
	}
	if pending != nil {
		return c.JSON(http.StatusOK, pending)
	}
	return c.JSON(http.StatusOK, dateCheckResp{Eligible: true, Date: date.Format(model.DateLayout)})
}

// Availability handles GET /v1/availability?date=&shift=.
func (h *ReservationHandler) Availability(c echo.Context) error {
	date, err := booking.ParseDate(c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	shift, err := model.ParseShift(c.QueryParam("shift"))
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rooms, err := h.Ledger.AvailableRooms(ctx, date, shift)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":  date.Format(model.DateLayout),
		"shift": shift.Info(),
		"rooms": rooms,
	})
}

// Create handles POST /v1/reservations.  A Sunday date answers 409 with
// the proposed Monday unless accept_alternative is present in the body.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, pending, err := h.checkDate(req.dateCheckReq)
	if err != nil {
		return writeError(c, err)
	}
	if pending != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "date falls on a sunday; resend with accept_alternative",
			"alternative": pending.Alternative,
		})
	}
	shift, err := model.ResolveShift(req.ShiftID)
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	res, err := h.Ledger.Create(ctx, booking.CreateRequest{
		Date:       date,
		RoomID:     req.RoomID,
		Shift:      shift,
		CustomerID: req.CustomerID,
		EventName:  req.EventName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toResp(res))
}

// List handles GET /v1/reservations?from=&to=.
func (h *ReservationHandler) List(c echo.Context) error {
	from, err := booking.ParseDate(c.QueryParam("from"))
	if err != nil {
		return writeError(c, err)
	}
	to, err := booking.ParseDate(c.QueryParam("to"))
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Ledger.ListActiveBetween(ctx, from, to)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]reservationResp, 0, len(list))
	for i := range list {
		out = append(out, toResp(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/reservations/:folio.
func (h *ReservationHandler) Get(c echo.Context) error {
	folio, ok := parseID(c, "folio")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid folio"})
	}
	res, err := h.Ledger.Get(c.Request().Context(), folio)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(res))
}

// Rename handles PATCH /v1/reservations/:folio.
func (h *ReservationHandler) Rename(c echo.Context) error {
	folio, ok := parseID(c, "folio")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid folio"})
	}
	var req renameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	res, err := h.Ledger.Rename(ctx, folio, req.EventName)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(res))
}

// Cancel handles POST /v1/reservations/:folio/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	folio, ok := parseID(c, "folio")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid folio"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	res, err := h.Ledger.Cancel(ctx, folio)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(res))
}
