package myerrors

import "errors"

// Error kinds. Every domain error unwraps to exactly one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrDBConnClosed    = errors.New("failed to connect to db")
	ErrDBConnClosedMsg = errors.New("internal error, please try again later")
)

// Error is a domain error with a caller-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrFieldIsEmpty       = New(ErrValidation, "field is empty")
	ErrInvalidStatus      = New(ErrValidation, "Invalid RideStatus. Allowed: Pending, Accepted, Started, Completed, Cancelled")
	ErrInvalidFare        = New(ErrValidation, "fare must be a positive amount with at most two decimals")
	ErrInvalidId          = New(ErrValidation, "invalid id")
	ErrInvalidPhoneNumber = New(ErrValidation, "invalid mobile number")

	ErrUserNotFound   = New(ErrNotFound, "User not found")
	ErrDriverNotFound = New(ErrNotFound, "Driver not found")
	ErrRideNotFound   = New(ErrNotFound, "Ride not found")

	ErrRideAlreadyClaimed = New(ErrConflict, "Ride already taken by another driver")
	ErrInvalidTransition  = New(ErrConflict, "ride status transition not allowed")
	ErrRideFinished       = New(ErrConflict, "ride is already completed or cancelled")
	ErrDriverBusy         = New(ErrConflict, "driver is busy with an active ride")
	ErrDriverOffline      = New(ErrConflict, "driver is offline")
	ErrEmailRegistered    = New(ErrConflict, "Email already in use")
	ErrLicenseRegistered  = New(ErrConflict, "driver licence number is already registered")

	ErrInvalidCredentials = New(ErrUnauthorized, "invalid credentials")
	ErrInvalidToken       = New(ErrUnauthorized, "invalid or expired token")
	ErrNotADriver         = New(ErrForbidden, "only drivers can do this")
	ErrActingForOther     = New(ErrForbidden, "you can only act on your own behalf")
)

// Validation builds a validation error with a custom message.
func Validation(msg string) *Error {
	return New(ErrValidation, msg)
}
