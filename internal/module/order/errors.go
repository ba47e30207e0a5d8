package order

import "errors"

// Module errors.
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotCancelable = errors.New("order cannot be cancelled")
)
