package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/coworking-reservation/internal/booking"
	"github.com/iliyamo/coworking-reservation/internal/config"
	"github.com/iliyamo/coworking-reservation/internal/database"
	"github.com/iliyamo/coworking-reservation/internal/handler"
	"github.com/iliyamo/coworking-reservation/internal/middleware"
	"github.com/iliyamo/coworking-reservation/internal/report"
	"github.com/iliyamo/coworking-reservation/internal/repository"
	"github.com/iliyamo/coworking-reservation/internal/router"
	"github.com/iliyamo/coworking-reservation/internal/utils"
)

const secret = "test-secret"

// Wednesday 2 Jan 2030.
var now = time.Date(2030, 1, 2, 12, 0, 0, 0, time.UTC)

type api struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.SQLite))

	hash, err := utils.HashPassword("letmein", 4)
	require.NoError(t, err)
	cfg := config.Config{
		JWTSecret:            secret,
		AccessTTLMin:         5,
		OperatorUser:         "desk",
		OperatorPasswordHash: hash,
	}

	catalog := repository.NewCatalogRepo(db)
	ledger := booking.NewLedger(repository.NewReservationRepo(db), catalog,
		booking.WithClock(booking.FixedClock(now)), booking.WithLocation(time.UTC))

	e := echo.New()
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg))
	router.RegisterBooking(e, router.Handlers{
		Catalog:      handler.NewCatalogHandler(catalog, nil),
		Reservations: handler.NewReservationHandler(ledger),
		Reports:      handler.NewReportHandler(ledger),
	}, secret, middleware.NewRedisCache(config.CacheConfig{}, nil))

	a := &api{t: t, e: e}
	rec := a.do(http.MethodPost, "/v1/auth/login", `{"username":"desk","password":"letmein"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	a.token = login.Access.Token
	return a
}

func (a *api) do(method, target, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *api) seed() {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/v1/customers", `{"first_name":"ana","last_name":"lopez"}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/v1/rooms", `{"name":"sala a","capacity":6}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/readyz", "").Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	a := newAPI(t)
	a.token = ""
	rec := a.do(http.MethodPost, "/v1/auth/login", `{"username":"desk","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/v1/shifts", "").Code)
}

func TestShiftsAndCatalog(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/v1/shifts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"label":"Morning"},{"id":2,"label":"Afternoon"},{"id":3,"label":"Night"}]`, rec.Body.String())

	a.seed()
	rec = a.do(http.MethodGet, "/v1/customers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"first_name":"ANA","last_name":"LOPEZ"}]`, rec.Body.String())

	rec = a.do(http.MethodPost, "/v1/customers", `{"first_name":"r2d2","last_name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(http.MethodPost, "/v1/rooms", `{"name":"b","capacity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDateCheck(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/v1/dates/check", `{"date":"01-04-2030"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"eligible":true,"date":"2030-01-04"}`, rec.Body.String())

	rec = a.do(http.MethodPost, "/v1/dates/check", `{"date":"01-03-2030"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "insufficient lead time", decode[map[string]any](t, rec)["reason"])

	rec = a.do(http.MethodPost, "/v1/dates/check", `{"date":"01-06-2030"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"eligible":false,"needs_decision":true,"alternative":"2030-01-07"}`, rec.Body.String())

	rec = a.do(http.MethodPost, "/v1/dates/check", `{"date":"01-06-2030","accept_alternative":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"eligible":true,"date":"2030-01-07"}`, rec.Body.String())

	rec = a.do(http.MethodPost, "/v1/dates/check", `{"date":"01-06-2030","accept_alternative":false}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// a Sunday already behind the lead time is rejected, not redirected
	rec = a.do(http.MethodPost, "/v1/dates/check", `{"date":"12-30-2029"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "insufficient lead time", decode[map[string]any](t, rec)["reason"])

	rec = a.do(http.MethodPost, "/v1/dates/check", `{"date":"Jan 4"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid format", decode[map[string]any](t, rec)["reason"])
}

func TestReservationLifecycle(t *testing.T) {
	a := newAPI(t)
	a.seed()

	rec := a.do(http.MethodGet, "/v1/availability?date=01-04-2030&shift=morning", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string]any](t, rec)["rooms"], 1)

	body := `{"date":"01-04-2030","room_id":1,"shift_id":1,"customer_id":1,"event_name":"  design   review "}`
	rec = a.do(http.MethodPost, "/v1/reservations", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "design review", created["event_name"])
	assert.Equal(t, "ACTIVE", created["status"])
	assert.Equal(t, "Morning", created["shift"])

	rec = a.do(http.MethodPost, "/v1/reservations", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodGet, "/v1/availability?date=2030-01-04&shift=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, rec)["rooms"])

	rec = a.do(http.MethodPatch, "/v1/reservations/1", `{"event_name":"final review"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "final review", decode[map[string]any](t, rec)["event_name"])

	rec = a.do(http.MethodGet, "/v1/reservations?from=01-01-2030&to=01-31-2030", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = a.do(http.MethodPost, "/v1/reservations/1/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CANCELLED", decode[map[string]any](t, rec)["status"])

	rec = a.do(http.MethodPost, "/v1/reservations/1/cancel", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodGet, "/v1/reservations/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CANCELLED", decode[map[string]any](t, rec)["status"])

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/v1/reservations/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/reservations/abc", "").Code)
}

func TestCreateReservationErrors(t *testing.T) {
	a := newAPI(t)
	a.seed()

	cases := []struct {
		body string
		code int
	}{
		{`{"date":"01-03-2030","room_id":1,"shift_id":1,"customer_id":1,"event_name":"x"}`, http.StatusUnprocessableEntity},
		{`{"date":"01-04-2030","room_id":1,"shift_id":7,"customer_id":1,"event_name":"x"}`, http.StatusBadRequest},
		{`{"date":"01-04-2030","room_id":1,"shift_id":1,"customer_id":1,"event_name":"   "}`, http.StatusBadRequest},
		{`{"date":"01-04-2030","room_id":9,"shift_id":1,"customer_id":1,"event_name":"x"}`, http.StatusNotFound},
		{`{"date":"01-04-2030","room_id":1,"shift_id":1,"customer_id":9,"event_name":"x"}`, http.StatusNotFound},
		{`{"date":"01-06-2030","room_id":1,"shift_id":1,"customer_id":1,"event_name":"x"}`, http.StatusConflict},
	}
	for _, tc := range cases {
		rec := a.do(http.MethodPost, "/v1/reservations", tc.body)
		assert.Equal(t, tc.code, rec.Code, tc.body+" -> "+rec.Body.String())
	}

	rec := a.do(http.MethodPost, "/v1/reservations",
		`{"date":"01-06-2030","accept_alternative":true,"room_id":1,"shift_id":1,"customer_id":1,"event_name":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "2030-01-07", decode[map[string]any](t, rec)["date"])
}

func TestDailyReport(t *testing.T) {
	a := newAPI(t)
	a.seed()

	rec := a.do(http.MethodGet, "/v1/reports/01-04-2030", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "nothing to export", rec.Header().Get("X-Report-Status"))

	rec = a.do(http.MethodPost, "/v1/reservations",
		`{"date":"01-04-2030","room_id":1,"shift_id":3,"customer_id":1,"event_name":"night shift"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodGet, "/v1/reports/01-04-2030?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Room,Customer,Event,Shift\nSALA A,ANA LOPEZ,Night Shift,Night\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "reservations-2030-01-04.csv")

	rec = a.do(http.MethodGet, "/v1/reports/2030-01-04", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"room":"SALA A","customer":"ANA LOPEZ","event":"Night Shift","shift":"Night"}]`, rec.Body.String())

	rec = a.do(http.MethodGet, "/v1/reports/2030-01-04?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "reservations-2030-01-04.xlsx")
	wb, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer wb.Close()
	sheet, err := wb.GetRows(report.SheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"SALA A", "ANA LOPEZ", "Night Shift", "Night"}, sheet[1])

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/reports/2030-01-04?format=pdf", "").Code)
	// today has nothing booked
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodGet, "/v1/reports", "").Code)
}
