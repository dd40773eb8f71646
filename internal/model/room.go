package model

import (
	"errors"
	"math"
	"strings"
)

// Room represents a bookable room stored in the `rooms` table.  Rooms are
// immutable once created.
//
// Fields:
//  ID       – primary key assigned on insert.
//  Name     – display name, stored upper-cased.
//  Capacity – number of people the room holds; always positive.
type Room struct {
	ID       uint64 `json:"id"`       // rooms.id
	Name     string `json:"name"`     // rooms.name
	Capacity uint32 `json:"capacity"` // rooms.capacity
}

var (
	ErrInvalidRoomName = errors.New("room name is required")
	ErrInvalidCapacity = errors.New("capacity must be greater than zero")
)

// NewRoom validates a room before registration.  The name is trimmed and
// upper-cased.
func NewRoom(name string, capacity int) (Room, error) {
	name = strings.ToUpper(strings.Join(strings.Fields(name), " "))
	if name == "" {
		return Room{}, ErrInvalidRoomName
	}
	if capacity <= 0 || int64(capacity) > math.MaxUint32 {
		return Room{}, ErrInvalidCapacity
	}
	return Room{Name: name, Capacity: uint32(capacity)}, nil
}
