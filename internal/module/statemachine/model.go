package statemachine

import (
	"time"

	"github.com/google/uuid"
)

// Machine names.
const (
	MachineOrder            = "order.state"
	MachineOrderTransaction = "order_transaction.state"
)

// State IDs.
const (
	StateOpen       = "open"
	StateInProgress = "in_progress"
	StateCompleted  = "completed"
	StatePaid       = "paid"
	StateFailed     = "failed"
	StateRefunded   = "refunded"
	StateCancelled  = "cancelled"
)

// Action names. Transitions are driven exclusively through these, never by
// direct state assignment.
const (
	ActionProcess  = "process"
	ActionComplete = "complete"
	ActionPay      = "pay"
	ActionFail     = "fail"
	ActionRefund   = "refund"
	ActionReopen   = "reopen"
	ActionCancel   = "cancel"
)

// Machine defines the states and named actions of one state machine.
type Machine struct {
	Name    string
	Initial string

	// transitions maps action -> from-state -> to-state.
	transitions map[string]map[string]string
	// forced maps action -> to-state for actions permitted from any state,
	// including the empty (stateless) one.
	forced map[string]string
}

// Destination resolves the target state for an action fired from `from`.
func (m *Machine) Destination(action, from string) (string, bool) {
	if to, ok := m.forced[action]; ok {
		return to, true
	}
	froms, ok := m.transitions[action]
	if !ok {
		return "", false
	}
	to, ok := froms[from]
	return to, ok
}

// Registry holds all known state machines.
type Registry struct {
	machines map[string]*Machine
}

// NewRegistry creates a registry with the order and order transaction
// machines registered.
func NewRegistry() *Registry {
	return &Registry{
		machines: map[string]*Machine{
			MachineOrder: {
				Name:    MachineOrder,
				Initial: StateOpen,
				transitions: map[string]map[string]string{
					ActionProcess:  {StateOpen: StateInProgress},
					ActionComplete: {StateInProgress: StateCompleted},
					ActionCancel:   {StateOpen: StateCancelled, StateInProgress: StateCancelled},
					ActionReopen:   {StateCancelled: StateOpen},
				},
			},
			MachineOrderTransaction: {
				Name:    MachineOrderTransaction,
				Initial: StateOpen,
				transitions: map[string]map[string]string{
					ActionPay:    {StateOpen: StatePaid},
					ActionFail:   {StateOpen: StateFailed},
					ActionRefund: {StatePaid: StateRefunded},
					ActionReopen: {StateCancelled: StateOpen, StateFailed: StateOpen},
				},
				// Cancelling a payment attempt is always allowed, even for
				// transactions that never entered the machine.
				forced: map[string]string{
					ActionCancel: StateCancelled,
				},
			},
		},
	}
}

// Machine returns the machine with the given name.
func (r *Registry) Machine(name string) (*Machine, error) {
	m, ok := r.machines[name]
	if !ok {
		return nil, ErrMachineNotFound
	}
	return m, nil
}

// HistoryEntry records one applied transition.
type HistoryEntry struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MachineName string    `json:"machine_name" gorm:"not null;index:idx_history_entity"`
	EntityID    uuid.UUID `json:"entity_id" gorm:"type:uuid;not null;index:idx_history_entity"`
	FromState   string    `json:"from_state"`
	ToState     string    `json:"to_state" gorm:"not null"`
	Action      string    `json:"action" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (HistoryEntry) TableName() string {
	return "state_machine_history"
}
