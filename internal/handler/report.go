package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coworking-reservation/internal/booking"
	"github.com/iliyamo/coworking-reservation/internal/model"
	"github.com/iliyamo/coworking-reservation/internal/report"
)

// ReportHandler exports the daily list of active reservations.
type ReportHandler struct {
	Ledger *booking.Ledger
}

func NewReportHandler(l *booking.Ledger) *ReportHandler { return &ReportHandler{Ledger: l} }

// Daily handles GET /v1/reports and GET /v1/reports/:date with an optional
// ?format=json|csv|xlsx.  Without a date the report covers today.  A day with no
// active reservations answers 204.
func (h *ReportHandler) Daily(c echo.Context) error {
	date := h.Ledger.Today()
	if raw := c.Param("date"); raw != "" {
		d, err := booking.ParseDate(raw)
		if err != nil {
			return writeError(c, err)
		}
		date = d
	}
	format, err := report.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	rows, err := h.Ledger.ListActive(ctx, date)
	if err != nil {
		return writeError(c, err)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, format, rows); err != nil {
		if errors.Is(err, report.ErrNothingToExport) {
			c.Response().Header().Set("X-Report-Status", err.Error())
			return c.NoContent(http.StatusNoContent)
		}
		return writeError(c, err)
	}
	if format != report.FormatJSON {
		name := fmt.Sprintf("reservations-%s%s", date.Format(model.DateLayout), format.Extension())
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	}
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
