package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-reservation/internal/booking"
	"github.com/iliyamo/coworking-reservation/internal/model"
	"github.com/iliyamo/coworking-reservation/internal/report"
)

// writeError maps domain errors onto HTTP responses.  Anything unknown is a
// storage fault: it is logged and hidden behind a generic 500.
func writeError(c echo.Context, err error) error {
	var rej *booking.DateRejection
	switch {
	case errors.As(err, &rej):
		body := echo.Map{"error": rej.Error(), "reason": rej.Reason.Error()}
		if !rej.Minimum.IsZero() {
			body["earliest"] = rej.Minimum.Format(model.DateLayout)
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, booking.ErrEmptyEventName),
		errors.Is(err, booking.ErrInvalidRange),
		errors.Is(err, model.ErrUnknownShift),
		errors.Is(err, model.ErrInvalidName),
		errors.Is(err, model.ErrInvalidRoomName),
		errors.Is(err, model.ErrInvalidCapacity),
		errors.Is(err, report.ErrUnknownFormat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrReservationNotFound),
		errors.Is(err, booking.ErrRoomNotFound),
		errors.Is(err, booking.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSlotTaken),
		errors.Is(err, booking.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
