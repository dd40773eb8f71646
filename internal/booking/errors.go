package booking

import (
	"errors"

	"github.com/iliyamo/coworking-reservation/internal/repository"
)

// Business rejections returned by the ledger.  Callers match them with
// errors.Is and decide whether to retry, choose differently or abort.
var (
	ErrSlotTaken        = errors.New("room already reserved for that date and shift")
	ErrAlreadyCancelled = errors.New("reservation already cancelled")
	ErrEmptyEventName   = errors.New("event name is required")
	ErrInvalidRange     = errors.New("end date must be after start date")

	ErrReservationNotFound = repository.ErrReservationNotFound
	ErrRoomNotFound        = repository.ErrRoomNotFound
	ErrCustomerNotFound    = repository.ErrCustomerNotFound
)

// Date rejection reasons.  They are always delivered wrapped in a
// *DateRejection.
var (
	ErrInvalidDateFormat    = errors.New("invalid format")
	ErrInsufficientLeadTime = errors.New("insufficient lead time")
	ErrAlternativeLeadTime  = errors.New("proposed date also violates lead time")
	ErrSundayNotAllowed     = errors.New("reservations are not taken on sundays")
)
