// Package repository holds the SQL for customers, rooms and reservations.
// Queries use `?` placeholders understood by both the MySQL and SQLite
// drivers.  Sentinel errors below let higher layers tell missing rows and
// constraint conflicts apart from storage faults.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrConflict is returned when an insert or update trips a uniqueness
// constraint, such as a second ACTIVE reservation for the same slot.
var ErrConflict = errors.New("conflict")

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// notFound maps sql.ErrNoRows to the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
