// Package compoundv3 binds Compound v3 (Comet) markets to the generic action
// orchestrators. The market contract is itself the position token: base
// balances rebase with accrued interest.
package compoundv3

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/actions"
)

// Comet models the market surface the adapter consumes. It embeds the token
// surface because the market contract is the ERC20 holding the position.
type Comet interface {
	actions.Token
	Supply(from common.Address, asset common.Address, amount *big.Int) error
	Withdraw(to common.Address, asset common.Address, amount *big.Int) error
}

// Underlying is the base asset: balance reads plus the allowance grant the
// market pulls deposits through.
type Underlying interface {
	actions.Token
	Approve(owner, spender common.Address, amount *big.Int) error
}

var errNilComet = errors.New("compoundv3: comet not configured")

// Adapter satisfies the supply and withdraw traits for one market.
type Adapter struct {
	comet     Comet
	cometAddr common.Address
	base      Underlying
	baseAddr  common.Address
}

// NewAdapter wires one market with its base asset.
func NewAdapter(cometAddr common.Address, comet Comet, baseAddr common.Address, base Underlying) *Adapter {
	return &Adapter{comet: comet, cometAddr: cometAddr, base: base, baseAddr: baseAddr}
}

// Binder resolves a registered pool address into its adapter.
type Binder func(pool common.Address) (*Adapter, error)

// PositionBalance implements the actions.PositionReader interface.
func (a *Adapter) PositionBalance(wallet common.Address) (*big.Int, error) {
	if a == nil || a.comet == nil {
		return nil, errNilComet
	}
	return a.comet.BalanceOf(wallet)
}

// FeeToken implements the actions.PositionReader interface. Fees are settled
// in the market's own balance token.
func (a *Adapter) FeeToken() actions.Token { return a.comet }

// UnderlyingBalance implements the actions.SupplyProtocol interface.
func (a *Adapter) UnderlyingBalance(wallet common.Address) (*big.Int, error) {
	return a.base.BalanceOf(wallet)
}

// ApproveSpend implements the actions.SupplyProtocol interface.
func (a *Adapter) ApproveSpend(wallet common.Address, amount *big.Int) error {
	return a.base.Approve(wallet, a.cometAddr, amount)
}

// Deposit implements the actions.SupplyProtocol interface. Comet does not
// return the balance credited; the orchestrator diffs.
func (a *Adapter) Deposit(wallet common.Address, amount *big.Int) (*big.Int, error) {
	if a == nil || a.comet == nil {
		return nil, errNilComet
	}
	if err := a.comet.Supply(wallet, a.baseAddr, amount); err != nil {
		return nil, err
	}
	return nil, nil
}

// MaxWithdraw implements the actions.WithdrawProtocol interface.
func (a *Adapter) MaxWithdraw(wallet common.Address) (*big.Int, error) {
	return a.PositionBalance(wallet)
}

// Withdraw implements the actions.WithdrawProtocol interface. Comet base
// withdrawals are exact-out.
func (a *Adapter) Withdraw(wallet common.Address, amount *big.Int) (*big.Int, error) {
	if a == nil || a.comet == nil {
		return nil, errNilComet
	}
	if err := a.comet.Withdraw(wallet, a.baseAddr, amount); err != nil {
		return nil, err
	}
	return new(big.Int).Set(amount), nil
}

// NewSupplyAction builds the deposit action for this market shape.
func NewSupplyAction(cfg actions.Config, bind Binder) (*actions.SupplyAction, error) {
	return actions.NewSupplyAction(cfg, func(pool common.Address) (actions.SupplyProtocol, error) {
		return bind(pool)
	})
}

// NewWithdrawAction builds the withdrawal action for this market shape.
func NewWithdrawAction(cfg actions.Config, bind Binder) (*actions.WithdrawAction, error) {
	return actions.NewWithdrawAction(cfg, func(pool common.Address) (actions.WithdrawProtocol, error) {
		return bind(pool)
	})
}

// NewExitAction builds the emergency full-withdrawal action.
func NewExitAction(cfg actions.Config, bind Binder) (*actions.ExitAction, error) {
	return actions.NewExitAction(cfg, func(pool common.Address) (actions.WithdrawProtocol, error) {
		return bind(pool)
	})
}
