// Package booking implements the reservation rules: date eligibility, event
// name normalization, availability and the reservation ledger.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/coworking-reservation/internal/model"
	"github.com/iliyamo/coworking-reservation/internal/queue"
	"github.com/iliyamo/coworking-reservation/internal/report"
	"github.com/iliyamo/coworking-reservation/internal/repository"
)

// EventPublisher receives a ReservationEvent after each committed change.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// Ledger is the authoritative store of reservations.  Every mutating call
// runs in a single transaction so no partial write is ever visible.
type Ledger struct {
	reservations *repository.ReservationRepo
	catalog      *repository.CatalogRepo
	clock        Clock
	loc          *time.Location
	events       EventPublisher
	invalidate   func(ctx context.Context) error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the clock used for "today" and creation timestamps.
func WithClock(c Clock) Option { return func(l *Ledger) { l.clock = c } }

// WithLocation sets the time zone in which "today" is computed.
func WithLocation(loc *time.Location) Option { return func(l *Ledger) { l.loc = loc } }

// WithPublisher enables change notifications.
func WithPublisher(p EventPublisher) Option { return func(l *Ledger) { l.events = p } }

// WithInvalidator registers fn to run after every committed change, so
// cached reads served to this process reflect its own writes.
func WithInvalidator(fn func(ctx context.Context) error) Option {
	return func(l *Ledger) { l.invalidate = fn }
}

func NewLedger(reservations *repository.ReservationRepo, catalog *repository.CatalogRepo, opts ...Option) *Ledger {
	l := &Ledger{
		reservations: reservations,
		catalog:      catalog,
		clock:        RealClock{},
		loc:          time.Local,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today returns the current calendar date in the ledger's time zone.
func (l *Ledger) Today() time.Time {
	return DateOf(l.clock.Now().In(l.loc))
}

// Shifts returns the shift catalog.
func (l *Ledger) Shifts() []model.Shift { return model.Shifts() }

// CreateRequest carries the fields of a new reservation.  CreatedAt may be
// left zero to use the ledger clock.
type CreateRequest struct {
	Date       time.Time
	RoomID     uint64
	Shift      model.Shift
	CustomerID uint64
	EventName  string
	CreatedAt  time.Time
}

// Create books a room for one shift on one date.  The date must satisfy
// the lead-time rule and must not be a Sunday; callers resolve a Sunday
// proposal through CheckDate/Decide beforehand.
func (l *Ledger) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
	name, err := NormalizeEventName(req.EventName)
	if err != nil {
		return nil, err
	}
	if !req.Shift.Valid() {
		return nil, model.ErrUnknownShift
	}
	date := DateOf(req.Date)
	if err := bookable(date, l.Today()); err != nil {
		return nil, err
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = l.clock.Now()
	}

	res := &model.Reservation{
		Date:       date,
		RoomID:     req.RoomID,
		Shift:      req.Shift,
		CustomerID: req.CustomerID,
		EventName:  name,
		CreatedAt:  createdAt.UTC(),
		Status:     model.StatusActive,
	}
	err = l.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := l.catalog.CustomerExistsTx(ctx, tx, req.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCustomerNotFound
		}
		if ok, err = l.catalog.RoomExistsTx(ctx, tx, req.RoomID); err != nil {
			return err
		} else if !ok {
			return ErrRoomNotFound
		}
		taken, err := l.reservations.SlotTakenTx(ctx, tx, date, req.RoomID, req.Shift)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		if err := l.reservations.CreateTx(ctx, tx, res); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrSlotTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.publish(ctx, queue.EventCreated, res)
	return res, nil
}

// Rename replaces the event name of a reservation.  Cancelled reservations
// may be renamed too.
func (l *Ledger) Rename(ctx context.Context, folio uint64, name string) (*model.Reservation, error) {
	name, err := NormalizeEventName(name)
	if err != nil {
		return nil, err
	}
	var res *model.Reservation
	err = l.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := l.reservations.GetTx(ctx, tx, folio)
		if err != nil {
			return err
		}
		if cur.EventName != name {
			if err := l.reservations.UpdateEventNameTx(ctx, tx, folio, name); err != nil {
				return err
			}
			cur.EventName = name
		}
		res = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.publish(ctx, queue.EventRenamed, res)
	return res, nil
}

// Cancel releases the reservation's slot.  Only ACTIVE reservations can be
// cancelled; a second cancel returns ErrAlreadyCancelled.
func (l *Ledger) Cancel(ctx context.Context, folio uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := l.reservations.GetTx(ctx, tx, folio)
		if err != nil {
			return err
		}
		if !cur.Active() {
			return ErrAlreadyCancelled
		}
		changed, err := l.reservations.CancelTx(ctx, tx, folio)
		if err != nil {
			return err
		}
		if !changed {
			return ErrAlreadyCancelled
		}
		cur.Status = model.StatusCancelled
		res = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.publish(ctx, queue.EventCancelled, res)
	return res, nil
}

// Get returns one reservation regardless of status.
func (l *Ledger) Get(ctx context.Context, folio uint64) (*model.Reservation, error) {
	return l.reservations.Get(ctx, folio)
}

// AvailableRooms lists rooms free on date for shift, ordered by room id.
// The answer is advisory; Create re-checks inside its transaction.
func (l *Ledger) AvailableRooms(ctx context.Context, date time.Time, shift model.Shift) ([]model.Room, error) {
	if !shift.Valid() {
		return nil, model.ErrUnknownShift
	}
	return l.reservations.AvailableRooms(ctx, DateOf(date), shift)
}

// ListActive returns the report rows for the ACTIVE reservations on date.
func (l *Ledger) ListActive(ctx context.Context, date time.Time) ([]report.Row, error) {
	details, err := l.reservations.ListActiveByDate(ctx, DateOf(date))
	if err != nil {
		return nil, err
	}
	rows := make([]report.Row, 0, len(details))
	for _, d := range details {
		rows = append(rows, report.Row{
			Room:     d.RoomName,
			Customer: model.Customer{FirstName: d.CustomerFirst, LastName: d.CustomerLast}.FullName(),
			Event:    DisplayEventName(d.EventName),
			Shift:    d.Shift.Label(),
		})
	}
	return rows, nil
}

// ListActiveBetween returns ACTIVE reservations dated from..to inclusive.
// to must fall after from.
func (l *Ledger) ListActiveBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	from, to = DateOf(from), DateOf(to)
	if !to.After(from) {
		return nil, ErrInvalidRange
	}
	return l.reservations.ListActiveBetween(ctx, from, to)
}

func (l *Ledger) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := l.reservations.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// publish drops cached reads and notifies subscribers.  The change is
// already committed, so failures are only logged.
func (l *Ledger) publish(ctx context.Context, typ string, res *model.Reservation) {
	ctx = context.WithoutCancel(ctx)
	if l.invalidate != nil {
		if err := l.invalidate(ctx); err != nil {
			log.Printf("booking: cache purge after %s folio=%d: %v", typ, res.Folio, err)
		}
	}
	if l.events == nil {
		return
	}
	ev := queue.NewReservationEvent(typ, res, l.clock.Now())
	if err := l.events.Publish(ctx, ev); err != nil {
		log.Printf("booking: publish %s folio=%d: %v", typ, res.Folio, err)
	}
}
