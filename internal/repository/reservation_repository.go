package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/coworking-reservation/internal/database"
	"github.com/iliyamo/coworking-reservation/internal/model"
)

// ReservationRepo reads and writes the reservations table.  Methods with a
// Tx suffix run inside a caller-owned transaction; the caller commits or
// rolls back.
//
// Dates are stored as ISO text (yyyy-mm-dd) and created_at as RFC 3339
// text in UTC, which keeps comparisons and ordering identical on both
// supported databases.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// BeginTx starts a transaction.  On SQLite the DSN makes it IMMEDIATE.
func (r *ReservationRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// SlotKey is the value of reservations.slot_key for an ACTIVE reservation.
// The column is UNIQUE and cleared on cancel, so at most one ACTIVE row can
// hold a given (date, room, shift).
func SlotKey(date time.Time, roomID uint64, shift model.Shift) string {
	return fmt.Sprintf("%s|%d|%d", date.Format(model.DateLayout), roomID, shift.ID())
}

const reservationColumns = `folio, res_date, room_id, shift_id, customer_id, event_name, created_at, status`

// SlotTakenTx reports whether an ACTIVE reservation holds the slot.
func (r *ReservationRepo) SlotTakenTx(ctx context.Context, tx *sql.Tx, date time.Time, roomID uint64, shift model.Shift) (bool, error) {
	return exists(ctx, tx,
		"SELECT 1 FROM reservations WHERE res_date = ? AND room_id = ? AND shift_id = ? AND status = ?",
		date.Format(model.DateLayout), roomID, shift.ID(), model.StatusActive)
}

// CreateTx inserts res as ACTIVE and populates its Folio.  A uniqueness
// violation on the slot is reported as ErrConflict.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (res_date, room_id, shift_id, customer_id, event_name, created_at, status, slot_key)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.DateString(), res.RoomID, res.Shift.ID(), res.CustomerID, res.EventName,
		res.CreatedAt.UTC().Format(time.RFC3339Nano), model.StatusActive,
		SlotKey(res.Date, res.RoomID, res.Shift),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.Folio = uint64(id)
	res.Status = model.StatusActive
	return nil
}

// Get returns a reservation by folio.
func (r *ReservationRepo) Get(ctx context.Context, folio uint64) (*model.Reservation, error) {
	return getReservation(ctx, r.db, folio)
}

// GetTx is Get inside tx.
func (r *ReservationRepo) GetTx(ctx context.Context, tx *sql.Tx, folio uint64) (*model.Reservation, error) {
	return getReservation(ctx, tx, folio)
}

func getReservation(ctx context.Context, q querier, folio uint64) (*model.Reservation, error) {
	row := q.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE folio = ?", folio)
	res, err := scanReservation(row)
	if err != nil {
		return nil, notFound(err, ErrReservationNotFound)
	}
	return res, nil
}

// UpdateEventNameTx replaces the event name.  Status and slot are untouched.
func (r *ReservationRepo) UpdateEventNameTx(ctx context.Context, tx *sql.Tx, folio uint64, name string) error {
	result, err := tx.ExecContext(ctx, "UPDATE reservations SET event_name = ? WHERE folio = ?", name, folio)
	if err != nil {
		return err
	}
	// MySQL counts only changed rows, so zero here may just mean "same name"
	if n, _ := result.RowsAffected(); n == 0 {
		ok, err := exists(ctx, tx, "SELECT 1 FROM reservations WHERE folio = ?", folio)
		if err != nil {
			return err
		}
		if !ok {
			return ErrReservationNotFound
		}
	}
	return nil
}

// CancelTx moves an ACTIVE reservation to CANCELLED and releases its slot.
// It returns false when the reservation was not ACTIVE (or does not exist).
func (r *ReservationRepo) CancelTx(ctx context.Context, tx *sql.Tx, folio uint64) (bool, error) {
	result, err := tx.ExecContext(ctx,
		"UPDATE reservations SET status = ?, slot_key = NULL WHERE folio = ? AND status = ?",
		model.StatusCancelled, folio, model.StatusActive)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AvailableRooms returns the rooms with no ACTIVE reservation for the date
// and shift, ordered by room id.
func (r *ReservationRepo) AvailableRooms(ctx context.Context, date time.Time, shift model.Shift) ([]model.Room, error) {
	const q = `SELECT ro.id, ro.name, ro.capacity
	           FROM rooms ro
	           WHERE NOT EXISTS (
	               SELECT 1 FROM reservations re
	               WHERE re.room_id = ro.id AND re.res_date = ? AND re.shift_id = ? AND re.status = ?
	           )
	           ORDER BY ro.id`
	rows, err := r.db.QueryContext(ctx, q, date.Format(model.DateLayout), shift.ID(), model.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

// ActiveDetail is an ACTIVE reservation joined with its room and customer,
// as needed by the daily report.
type ActiveDetail struct {
	Folio         uint64
	RoomName      string
	CustomerFirst string
	CustomerLast  string
	EventName     string
	Shift         model.Shift
}

// ListActiveByDate returns the ACTIVE reservations on date ordered by
// room name, then shift.
func (r *ReservationRepo) ListActiveByDate(ctx context.Context, date time.Time) ([]ActiveDetail, error) {
	const q = `SELECT re.folio, ro.name, c.first_name, c.last_name, re.event_name, re.shift_id
	           FROM reservations re
	           JOIN rooms ro ON ro.id = re.room_id
	           JOIN customers c ON c.id = re.customer_id
	           WHERE re.res_date = ? AND re.status = ?
	           ORDER BY ro.name, re.shift_id, re.folio`
	rows, err := r.db.QueryContext(ctx, q, date.Format(model.DateLayout), model.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ActiveDetail, 0)
	for rows.Next() {
		var d ActiveDetail
		var shiftID uint8
		if err := rows.Scan(&d.Folio, &d.RoomName, &d.CustomerFirst, &d.CustomerLast, &d.EventName, &shiftID); err != nil {
			return nil, err
		}
		d.Shift = model.Shift(shiftID)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListActiveBetween returns ACTIVE reservations dated from..to inclusive,
// ordered by date then folio.
func (r *ReservationRepo) ListActiveBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE res_date BETWEEN ? AND ? AND status = ? ORDER BY res_date, folio",
		from.Format(model.DateLayout), to.Format(model.DateLayout), model.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanReservation(s scanner) (*model.Reservation, error) {
	var (
		res       model.Reservation
		date      string
		shiftID   uint8
		createdAt string
		status    string
	)
	if err := s.Scan(&res.Folio, &date, &res.RoomID, &shiftID, &res.CustomerID, &res.EventName, &createdAt, &status); err != nil {
		return nil, err
	}
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("reservation %d: bad res_date %q: %w", res.Folio, date, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("reservation %d: bad created_at %q: %w", res.Folio, createdAt, err)
	}
	res.Date = d
	res.CreatedAt = ts
	res.Shift = model.Shift(shiftID)
	res.Status = model.ReservationStatus(status)
	return &res, nil
}
