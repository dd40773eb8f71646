// Package queue defines message payloads exchanged over the message broker
// and the consumer that processes them.
package queue

import (
	"time"

	"github.com/iliyamo/coworking-reservation/internal/model"
)

// ReservationQueue is the durable queue carrying ReservationEvent messages.
const ReservationQueue = "reservation.events"

// Event types.
const (
	EventCreated   = "reservation.created"
	EventRenamed   = "reservation.renamed"
	EventCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation change commits.  It
// carries the reservation as it stood after the change so consumers never
// need to query the primary database.
type ReservationEvent struct {
	Type       string `json:"type"`
	Folio      uint64 `json:"folio"`
	Date       string `json:"date"`
	RoomID     uint64 `json:"room_id"`
	ShiftID    uint8  `json:"shift_id"`
	CustomerID uint64 `json:"customer_id"`
	EventName  string `json:"event_name"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

// NewReservationEvent snapshots res as an event of the given type.
func NewReservationEvent(typ string, res *model.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:       typ,
		Folio:      res.Folio,
		Date:       res.DateString(),
		RoomID:     res.RoomID,
		ShiftID:    res.Shift.ID(),
		CustomerID: res.CustomerID,
		EventName:  res.EventName,
		Status:     string(res.Status),
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
