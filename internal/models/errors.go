package models

import "errors"

// Business errors returned by the stores and the rental service. These are
// expected conditions and are always returned as values, never panics.
var (
	ErrNotFound           = errors.New("record not found")
	ErrMachineUnavailable = errors.New("machine is not available")
	ErrInvalidAccessMode  = errors.New("access mode not offered by machine")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrForbidden          = errors.New("action not allowed for this user")
	ErrInvalidState       = errors.New("action illegal for current rental status")
	ErrMachineBusy        = errors.New("machine has an open rental")
)
