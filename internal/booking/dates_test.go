package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("01-07-2030")
	require.NoError(t, err)
	assert.Equal(t, day("2030-01-07"), d)

	d, err = ParseDate(" 2030-01-07 ")
	require.NoError(t, err)
	assert.Equal(t, day("2030-01-07"), d)

	for _, in := range []string{"", "13-45-2030", "2030/01/07", "tomorrow"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrInvalidDateFormat, in)
		var rej *DateRejection
		assert.True(t, errors.As(err, &rej), in)
	}
}

func TestCheckDateLeadTime(t *testing.T) {
	today := day("2030-01-02") // Wednesday

	_, err := CheckDate(day("2030-01-03"), today)
	assert.ErrorIs(t, err, ErrInsufficientLeadTime)
	_, err = CheckDate(day("2030-01-01"), today)
	assert.ErrorIs(t, err, ErrInsufficientLeadTime)

	e, err := CheckDate(day("2030-01-04"), today)
	require.NoError(t, err)
	assert.False(t, e.NeedsDecision)
	got, err := e.Decide(false, today)
	require.NoError(t, err)
	assert.Equal(t, day("2030-01-04"), got)
}

func TestCheckDateSundayProposesMonday(t *testing.T) {
	today := day("2030-01-02")

	e, err := CheckDate(day("2030-01-06"), today)
	require.NoError(t, err)
	assert.True(t, e.NeedsDecision)
	assert.Equal(t, day("2030-01-07"), e.Alternative)

	got, err := e.Decide(true, today)
	require.NoError(t, err)
	assert.Equal(t, day("2030-01-07"), got)

	_, err = e.Decide(false, today)
	assert.ErrorIs(t, err, ErrSundayNotAllowed)
}

func TestCheckDateSundayBeforeMinimum(t *testing.T) {
	today := day("2030-01-06") // Sunday; minimum is Tuesday

	_, err := CheckDate(today, today)
	assert.ErrorIs(t, err, ErrInsufficientLeadTime)

	// a Sunday three days in the past
	_, err = CheckDate(day("2030-01-06"), day("2030-01-09"))
	assert.ErrorIs(t, err, ErrInsufficientLeadTime)
	var rej *DateRejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, day("2030-01-06"), rej.Candidate)
	assert.Equal(t, day("2030-01-11"), rej.Minimum)
}

func TestDecideRechecksAlternative(t *testing.T) {
	// proposal made on the 2nd, answered on the 6th
	e, err := CheckDate(day("2030-01-06"), day("2030-01-02"))
	require.NoError(t, err)
	require.True(t, e.NeedsDecision)

	_, err = e.Decide(true, day("2030-01-06"))
	assert.ErrorIs(t, err, ErrAlternativeLeadTime)
	var rej *DateRejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, day("2030-01-07"), rej.Candidate)
	assert.Equal(t, day("2030-01-08"), rej.Minimum)
}

func TestCheckDateIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2030, 1, 2, 23, 59, 0, 0, time.UTC)
	_, err := CheckDate(time.Date(2030, 1, 4, 0, 1, 0, 0, time.UTC), today)
	assert.NoError(t, err)
}

func TestNormalizeEventName(t *testing.T) {
	got, err := NormalizeEventName("  team   kick\toff  ")
	require.NoError(t, err)
	assert.Equal(t, "team kick off", got)

	again, err := NormalizeEventName(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = NormalizeEventName(" \t ")
	assert.ErrorIs(t, err, ErrEmptyEventName)
}

func TestDisplayEventName(t *testing.T) {
	assert.Equal(t, "Team Kick Off", DisplayEventName("team kick off"))
	assert.Equal(t, "Ñandú Day", DisplayEventName("ñandú DAY"))
}

func TestSundayRedirectJanuary2024(t *testing.T) {
	sunday := day("2024-01-07")

	e, err := CheckDate(sunday, day("2024-01-05"))
	require.NoError(t, err)
	got, err := e.Decide(true, day("2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-08"), got)

	// from the 7th the Sunday itself is inside the lead time
	_, err = CheckDate(sunday, day("2024-01-07"))
	assert.ErrorIs(t, err, ErrInsufficientLeadTime)
}
