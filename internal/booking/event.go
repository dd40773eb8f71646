package booking

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeEventName trims the name and collapses internal whitespace runs
// into single spaces.  An empty result is rejected.
func NormalizeEventName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", ErrEmptyEventName
	}
	return name, nil
}

// DisplayEventName title-cases a stored event name for reports.
func DisplayEventName(name string) string {
	// cases.Caser keeps state between calls and must not be shared.
	return cases.Title(language.Und).String(name)
}
