package model

import (
	"errors"
	"strconv"
	"strings"
)

// Shift is one of the three fixed daily blocks a reservation occupies.  The
// catalog is closed: the numeric values double as the primary keys of the
// seeded `shifts` table and must never change.
type Shift uint8

const (
	ShiftMorning   Shift = 1
	ShiftAfternoon Shift = 2
	ShiftNight     Shift = 3
)

// ErrUnknownShift is returned when an identifier or label does not name a
// member of the shift catalog.
var ErrUnknownShift = errors.New("unknown shift")

var shiftLabels = map[Shift]string{
	ShiftMorning:   "Morning",
	ShiftAfternoon: "Afternoon",
	ShiftNight:     "Night",
}

// Shifts returns the catalog in its canonical order.
func Shifts() []Shift {
	return []Shift{ShiftMorning, ShiftAfternoon, ShiftNight}
}

// ID returns the stable identifier used in storage and on the wire.
func (s Shift) ID() uint8 { return uint8(s) }

// Label returns the display label, or an empty string for values outside
// the catalog.
func (s Shift) Label() string { return shiftLabels[s] }

// Valid reports whether s belongs to the catalog.
func (s Shift) Valid() bool {
	_, ok := shiftLabels[s]
	return ok
}

func (s Shift) String() string {
	if l := s.Label(); l != "" {
		return l
	}
	return "Shift(" + strconv.Itoa(int(s)) + ")"
}

// ResolveShift looks a shift up by its numeric identifier.
func ResolveShift(id uint64) (Shift, error) {
	s := Shift(id)
	if id > 255 || !s.Valid() {
		return 0, ErrUnknownShift
	}
	return s, nil
}

// ParseShift accepts either the numeric identifier or the label
// (case-insensitive).
func ParseShift(v string) (Shift, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseUint(v, 10, 8); err == nil {
		return ResolveShift(n)
	}
	for _, s := range Shifts() {
		if strings.EqualFold(s.Label(), v) {
			return s, nil
		}
	}
	return 0, ErrUnknownShift
}

// ShiftInfo is the JSON shape used when listing the catalog.
type ShiftInfo struct {
	ID    uint8  `json:"id"`
	Label string `json:"label"`
}

// Info converts the shift into its listing shape.
func (s Shift) Info() ShiftInfo { return ShiftInfo{ID: s.ID(), Label: s.Label()} }
