package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.  The only
// permitted transition is ACTIVE → CANCELLED.
type ReservationStatus string

const (
	StatusActive    ReservationStatus = "ACTIVE"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// DateLayout is the storage representation of reservation dates.
const DateLayout = "2006-01-02"

// Reservation records the booking of one room for one shift on one date.
//
// Fields:
//  Folio      – primary key assigned by the store; never reused.
//  Date       – calendar date at UTC midnight (no time component).
//  RoomID     – booked room.
//  Shift      – booked shift.
//  CustomerID – customer the reservation belongs to.
//  EventName  – normalized event name (whitespace collapsed).
//  CreatedAt  – creation timestamp, set once.
//  Status     – ACTIVE or CANCELLED.
type Reservation struct {
	Folio      uint64            `json:"folio"`       // reservations.folio
	Date       time.Time         `json:"-"`           // reservations.res_date
	RoomID     uint64            `json:"room_id"`     // reservations.room_id
	Shift      Shift             `json:"shift_id"`    // reservations.shift_id
	CustomerID uint64            `json:"customer_id"` // reservations.customer_id
	EventName  string            `json:"event_name"`  // reservations.event_name
	CreatedAt  time.Time         `json:"created_at"`  // reservations.created_at
	Status     ReservationStatus `json:"status"`      // reservations.status
}

// Active reports whether the reservation still holds its slot.
func (r Reservation) Active() bool { return r.Status == StatusActive }

// DateString returns the ISO calendar date of the reservation.
func (r Reservation) DateString() string { return r.Date.Format(DateLayout) }
