package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMasterNotFound      = errors.New("master not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("slot already taken")
	ErrModelUnavailable    = errors.New("model unavailable")
	ErrUnknownAction       = errors.New("unknown action")
)

// ValidationError reports a malformed user-supplied value together with the
// format the user should retry with. It never advances session state.
type ValidationError struct {
	Field string
	Hint  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s, expected %s", e.Field, e.Hint)
}
