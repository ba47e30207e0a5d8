package scope

import "errors"

// ErrSystemScopeRequired is returned when a repository write is attempted
// without the system capability.
var ErrSystemScopeRequired = errors.New("write requires system scope")

// WriteScope is the capability threaded into repository mutations.
//
// A caller may be authorized to request a state change without being allowed
// to perform the underlying write itself; the workflow that handles the
// request passes System explicitly. The zero value carries no write rights.
type WriteScope string

const (
	// None is the default scope of an inbound request.
	None WriteScope = ""
	// System authorizes privileged internal writes.
	System WriteScope = "system"
)

// CanWrite reports whether the scope authorizes repository mutations.
func (s WriteScope) CanWrite() bool {
	return s == System
}

// Check returns ErrSystemScopeRequired unless the scope authorizes writes.
func (s WriteScope) Check() error {
	if !s.CanWrite() {
		return ErrSystemScopeRequired
	}
	return nil
}
