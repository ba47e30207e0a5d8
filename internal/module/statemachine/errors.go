package statemachine

import "errors"

// Module errors.
var (
	ErrMachineNotFound   = errors.New("state machine not found")
	ErrEntityNotFound    = errors.New("state machine entity not found")
	ErrIllegalTransition = errors.New("illegal state transition")
)
