package actions

import "errors"

var (
	// ErrInvalidInput indicates the opaque params payload could not be
	// decoded into the shape the action expects.
	ErrInvalidInput = errors.New("actions: invalid params payload")
	// ErrInvalidFeeBasis indicates a fee basis outside the range permitted by
	// the admin vault.
	ErrInvalidFeeBasis = errors.New("actions: invalid fee basis")
	// ErrUnknownPool indicates the pool identifier does not resolve to a
	// registered pool for the action's protocol.
	ErrUnknownPool = errors.New("actions: pool not registered")
	// ErrFeeClockNotStarted indicates a fee calculation was attempted before
	// the position's fee timestamp was ever initialised. The caller must
	// perform an initialising deposit first; this is a sequencing bug
	// upstream, not user error.
	ErrFeeClockNotStarted = errors.New("actions: fee timestamp not initialised")
	// ErrZeroAmount indicates the resolved operation amount was zero where a
	// positive amount is required. Fee-only supply pings pass amount zero
	// explicitly and never hit this.
	ErrZeroAmount = errors.New("actions: amount resolved to zero")
	// ErrSlippage indicates the shares or tokens received fell below the
	// caller's minimum bound.
	ErrSlippage = errors.New("actions: received below minimum bound")
	// ErrBoundExceeded indicates the shares burned exceeded the caller's
	// maximum, or the underlying received fell below their minimum, during a
	// withdrawal.
	ErrBoundExceeded = errors.New("actions: withdrawal bound exceeded")
)
