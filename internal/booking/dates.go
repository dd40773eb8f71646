package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/coworking-reservation/internal/model"
)

// LeadTimeDays is the minimum number of days between today and a
// reservation date.
const LeadTimeDays = 2

// InputDateLayout is the date format used at the human boundary.
const InputDateLayout = "01-02-2006"

// DateRejection explains why a candidate date cannot be booked.  Reason is
// one of the Err*LeadTime / ErrInvalidDateFormat / ErrSundayNotAllowed
// sentinels.
type DateRejection struct {
	Input     string
	Candidate time.Time
	Minimum   time.Time
	Reason    error
}

func (r *DateRejection) Error() string {
	switch r.Reason {
	case ErrInvalidDateFormat:
		return fmt.Sprintf("%v: %q (use mm-dd-yyyy)", r.Reason, r.Input)
	case ErrInsufficientLeadTime, ErrAlternativeLeadTime:
		return fmt.Sprintf("%v: %s is before %s", r.Reason, r.Candidate.Format(InputDateLayout), r.Minimum.Format(InputDateLayout))
	}
	return r.Reason.Error()
}

func (r *DateRejection) Unwrap() error { return r.Reason }

// DateOf truncates t to its calendar date, expressed as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MinimumDate is the earliest bookable date relative to today.
func MinimumDate(today time.Time) time.Time {
	return DateOf(today).AddDate(0, 0, LeadTimeDays)
}

// ParseDate converts boundary text into a calendar date.  It accepts
// mm-dd-yyyy and, for API clients, ISO yyyy-mm-dd.
func ParseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range []string{InputDateLayout, model.DateLayout} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DateRejection{Input: text, Reason: ErrInvalidDateFormat}
}

// Eligibility is the outcome of CheckDate.  When NeedsDecision is set the
// candidate fell on a Sunday and the caller must accept or decline the
// following Monday through Decide.
type Eligibility struct {
	Candidate     time.Time
	Date          time.Time
	Alternative   time.Time
	NeedsDecision bool
}

// CheckDate validates candidate against the lead-time and weekend rules.
// Dates before the minimum are rejected first; a Sunday that passes is not
// rejected outright but redirected to the following Monday, which the
// caller accepts or declines through Decide.
func CheckDate(candidate, today time.Time) (Eligibility, error) {
	candidate = DateOf(candidate)
	earliest := MinimumDate(today)
	if candidate.Before(earliest) {
		return Eligibility{}, &DateRejection{Candidate: candidate, Minimum: earliest, Reason: ErrInsufficientLeadTime}
	}
	if candidate.Weekday() == time.Sunday {
		return Eligibility{
			Candidate:     candidate,
			Alternative:   candidate.AddDate(0, 0, 1),
			NeedsDecision: true,
		}, nil
	}
	return Eligibility{Candidate: candidate, Date: candidate}, nil
}

// Decide resolves a pending Sunday proposal.  Accepting re-validates the
// proposed Monday against today, which may have moved on since CheckDate;
// declining always rejects so the caller asks for a new date.
// Eligibilities that need no decision return their date unchanged.
func (e Eligibility) Decide(accept bool, today time.Time) (time.Time, error) {
	if !e.NeedsDecision {
		return e.Date, nil
	}
	if !accept {
		return time.Time{}, &DateRejection{Candidate: e.Candidate, Reason: ErrSundayNotAllowed}
	}
	earliest := MinimumDate(today)
	if e.Alternative.Before(earliest) {
		return time.Time{}, &DateRejection{Candidate: e.Alternative, Minimum: earliest, Reason: ErrAlternativeLeadTime}
	}
	return e.Alternative, nil
}

// bookable is the commit-time form of the rules: Sundays are rejected
// instead of redirected because no one is left to answer the proposal.
func bookable(date, today time.Time) error {
	elig, err := CheckDate(date, today)
	if err != nil {
		return err
	}
	if elig.NeedsDecision {
		return &DateRejection{Candidate: elig.Candidate, Reason: ErrSundayNotAllowed}
	}
	return nil
}
