package services

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by a service matches exactly one of
// them with errors.Is, which is how the HTTP layer picks a status code.
var (
	// ErrValidation is a caller input error: a required field is missing or
	// malformed. Never retried.
	ErrValidation = errors.New("validation error")

	// ErrDataIntegrity means the stores hold records that break a uniqueness
	// invariant. It is a server-side failure and is never auto-corrected.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrNotFound is a lookup by id that yielded nothing.
	ErrNotFound = errors.New("not found")

	// ErrConflict is the duplicity guard refusing a target.
	ErrConflict = errors.New("conflict")
)

var (
	ErrDuplicateLot      = fmt.Errorf("%w: duplicate lot", ErrDataIntegrity)
	ErrDuplicateProperty = fmt.Errorf("%w: duplicate property", ErrDataIntegrity)

	// ErrLotAddressTaken refuses a lot update onto an address another lot owns.
	ErrLotAddressTaken = fmt.Errorf("%w: lot address taken", ErrConflict)

	ErrHuntNotFound     = fmt.Errorf("%w: hunt", ErrNotFound)
	ErrTargetNotFound   = fmt.Errorf("%w: target property", ErrNotFound)
	ErrLotNotFound      = fmt.Errorf("%w: lot", ErrNotFound)
	ErrPropertyNotFound = fmt.Errorf("%w: property", ErrNotFound)
)

// Duplicity reasons carried by a DuplicityError.
const (
	ReasonAlreadyExists = "ALREADY_EXISTS"
	ReasonByLot         = "DUPLICITY_WARNING: byLot"
	ReasonByStreet      = "DUPLICITY_WARNING: byStreet"

	ReasonLotAddressTaken = "LOT_ADDRESS_TAKEN"
)

// DuplicityError reports that a hunt already holds a target at the same or an
// overlapping address. Reason is one of the Reason constants.
type DuplicityError struct {
	Reason   string
	TargetID string
}

func (e *DuplicityError) Error() string {
	return fmt.Sprintf("conflict: %s (target %s)", e.Reason, e.TargetID)
}

// Is makes every DuplicityError match ErrConflict.
func (e *DuplicityError) Is(target error) bool {
	return target == ErrConflict
}

// DuplicityReason extracts the reason tag from err, if it carries one.
func DuplicityReason(err error) (string, bool) {
	var dup *DuplicityError
	if errors.As(err, &dup) {
		return dup.Reason, true
	}
	return "", false
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
