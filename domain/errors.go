package domain

import (
	"errors"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidCurrency     = errors.New("invalid currency")

	// ErrForbidden marks rejections caused by a caller lacking a privilege
	ErrForbidden = errors.New("forbidden")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
)

// Rejection is a precondition failure reported to the caller with a fixed
// reason string. Two rejections match under errors.Is when their reasons are
// equal, so a rejection built with Because still matches its sentinel.
type Rejection struct {
	Reason string
	Cause  error
}

// Reject creates a rejection, optionally classified by a cause such as ErrForbidden
func Reject(reason string, cause ...error) *Rejection {
	r := &Rejection{Reason: reason}
	if len(cause) > 0 {
		r.Cause = cause[0]
	}
	return r
}

func (r *Rejection) Error() string {
	return r.Reason
}

func (r *Rejection) Unwrap() error {
	return r.Cause
}

func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Reason == r.Reason
}

// Because returns a copy of r with a more specific cause attached
func (r *Rejection) Because(cause error) error {
	return &Rejection{Reason: r.Reason, Cause: cause}
}

// IsRejection reports whether err carries a caller facing reason
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// ErrNoPriceFeed is returned when a currency has no price feed bound
var ErrNoPriceFeed = Reject("Price feed not set")
