package model

import (
	"errors"
	"strings"
	"unicode"
)

// Customer represents a row in the `customers` table.  Customers are
// registered once and never edited; reservations reference them by ID.
//
// Fields:
//  ID        – primary key assigned on insert.
//  FirstName – given name, stored upper-cased.
//  LastName  – family name, stored upper-cased.
type Customer struct {
	ID        uint64 `json:"id"`         // customers.id
	FirstName string `json:"first_name"` // customers.first_name
	LastName  string `json:"last_name"`  // customers.last_name
}

// FullName joins first and last name the way reports print them.
func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// ErrInvalidName is returned for customer names that are empty or contain
// anything other than letters and spaces.
var ErrInvalidName = errors.New("names may contain only letters and spaces")

// NewCustomer validates and normalizes a customer before registration:
// surrounding whitespace is trimmed and both names are upper-cased.
func NewCustomer(first, last string) (Customer, error) {
	first, err := normalizeName(first)
	if err != nil {
		return Customer{}, err
	}
	last, err = normalizeName(last)
	if err != nil {
		return Customer{}, err
	}
	return Customer{FirstName: first, LastName: last}, nil
}

func normalizeName(v string) (string, error) {
	v = strings.Join(strings.Fields(v), " ")
	if v == "" {
		return "", ErrInvalidName
	}
	for _, r := range v {
		if r != ' ' && !unicode.IsLetter(r) {
			return "", ErrInvalidName
		}
	}
	return strings.ToUpper(v), nil
}
