package payment

import "errors"

// Module errors.
var (
	// ErrUnknownPaymentMethod is returned when the requested method is not in
	// the set currently offered to the sales context.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)
