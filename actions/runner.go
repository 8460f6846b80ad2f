package actions

import (
	"errors"
	"fmt"
	"strings"

	"safeactions/observability"
)

// Snapshotter is implemented by state stores that can roll back to an earlier
// revision. The runner snapshots every attached store before an execution and
// reverts all of them when the action fails, giving the all-or-nothing
// transition the on-chain execution model guarantees for free.
type Snapshotter interface {
	Snapshot() int
	RevertToSnapshot(id int)
}

// Runner dispatches ExecuteAction calls to registered actions and enforces
// atomicity across the attached state stores. Executions are serialized by
// the host; the runner holds no locks.
type Runner struct {
	actions map[string]Action
	state   []Snapshotter
}

// NewRunner constructs an empty runner.
func NewRunner() *Runner {
	return &Runner{actions: make(map[string]Action)}
}

// Register adds an action under a unique name.
func (r *Runner) Register(name string, action Action) error {
	if r == nil || action == nil {
		return fmt.Errorf("runner: nil action")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("runner: action name required")
	}
	if _, exists := r.actions[name]; exists {
		return fmt.Errorf("runner: action %q already registered", name)
	}
	r.actions[name] = action
	return nil
}

// AttachState registers stores to snapshot around every execution. Stores
// that persist outside the execution (e.g. a durable admin vault) manage
// their own transactionality and need not be attached.
func (r *Runner) AttachState(stores ...Snapshotter) {
	if r == nil {
		return
	}
	for _, s := range stores {
		if s != nil {
			r.state = append(r.state, s)
		}
	}
}

// Execute runs the named action against the supplied payload. On any error
// every attached store is reverted to its pre-execution snapshot and the
// error is returned wrapped with the protocol and action type so callers can
// tell a tight slippage bound from an unregistered pool from an internal bug.
func (r *Runner) Execute(name string, callData []byte, strategyID uint16) error {
	if r == nil {
		return fmt.Errorf("runner: not initialised")
	}
	action, ok := r.actions[strings.TrimSpace(name)]
	if !ok {
		return fmt.Errorf("runner: unknown action %q", name)
	}
	snapshots := make([]int, len(r.state))
	for i, s := range r.state {
		snapshots[i] = s.Snapshot()
	}
	if err := action.ExecuteAction(callData, strategyID); err != nil {
		for i := len(r.state) - 1; i >= 0; i-- {
			r.state[i].RevertToSnapshot(snapshots[i])
		}
		observability.Actions().Failed(action.ProtocolName(), action.ActionType().String(), failureReason(err))
		return fmt.Errorf("%s %s: %w", action.ProtocolName(), action.ActionType(), err)
	}
	observability.Actions().Executed(action.ProtocolName(), action.ActionType().String())
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrZeroAmount):
		return "zero_amount"
	case errors.Is(err, ErrUnknownPool):
		return "unknown_pool"
	case errors.Is(err, ErrFeeClockNotStarted):
		return "fee_clock_not_started"
	case errors.Is(err, ErrSlippage):
		return "slippage"
	case errors.Is(err, ErrBoundExceeded):
		return "bound_exceeded"
	case errors.Is(err, ErrInvalidFeeBasis):
		return "invalid_fee_basis"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "external"
	}
}
