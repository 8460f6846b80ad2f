// Package maple binds Maple-style pools, whose withdrawals settle through an
// asynchronous redemption queue, to the queued-withdrawal orchestrator.
package maple

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/actions"
)

// Pool models the pool token plus its withdrawal manager: share balance
// reads, fee settlement in shares, and redemption requests. Funds only move
// when the pool delegate processes the queue, which is outside this
// adapter's contract.
type Pool interface {
	actions.Token
	RequestRedeem(owner common.Address, shares *big.Int) (string, error)
}

var errNilPool = errors.New("maple: pool not configured")

// Adapter satisfies the queue-withdrawal trait for one pool.
type Adapter struct {
	pool Pool
}

// NewAdapter wires one pool.
func NewAdapter(pool Pool) *Adapter {
	return &Adapter{pool: pool}
}

// Binder resolves a registered pool address into its adapter.
type Binder func(pool common.Address) (*Adapter, error)

// PositionBalance implements the actions.PositionReader interface.
func (a *Adapter) PositionBalance(wallet common.Address) (*big.Int, error) {
	if a == nil || a.pool == nil {
		return nil, errNilPool
	}
	return a.pool.BalanceOf(wallet)
}

// FeeToken implements the actions.PositionReader interface.
func (a *Adapter) FeeToken() actions.Token { return a.pool }

// RequestRedeem implements the actions.QueueProtocol interface.
func (a *Adapter) RequestRedeem(wallet common.Address, shares *big.Int) (string, error) {
	if a == nil || a.pool == nil {
		return "", errNilPool
	}
	return a.pool.RequestRedeem(wallet, shares)
}

// NewRequestWithdrawAction builds the queued-redemption action for this pool
// shape.
func NewRequestWithdrawAction(cfg actions.Config, bind Binder) (*actions.RequestWithdrawAction, error) {
	return actions.NewRequestWithdrawAction(cfg, func(pool common.Address) (actions.QueueProtocol, error) {
		return bind(pool)
	})
}
