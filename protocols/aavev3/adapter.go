// Package aavev3 binds Aave v3 style markets to the generic action
// orchestrators: positions are rebasing aToken balances held 1:1 with the
// underlying, not discrete shares.
package aavev3

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/actions"
)

// Pool models the Aave v3 pool entrypoints the adapter consumes.
type Pool interface {
	Supply(from common.Address, asset common.Address, amount *big.Int) error
	// Withdraw redeems amount of asset to the wallet and returns the amount
	// actually withdrawn.
	Withdraw(to common.Address, asset common.Address, amount *big.Int) (*big.Int, error)
}

// Underlying is the reserve asset: balance reads plus the allowance grant
// the pool pulls deposits through.
type Underlying interface {
	actions.Token
	Approve(owner, spender common.Address, amount *big.Int) error
}

var errNilPool = errors.New("aavev3: pool not configured")

// Adapter satisfies the supply and withdraw traits for one reserve.
type Adapter struct {
	pool     Pool
	poolAddr common.Address
	asset    Underlying
	assetAdr common.Address
	aToken   actions.Token
}

// NewAdapter wires one reserve with its aToken and underlying asset.
func NewAdapter(poolAddr common.Address, pool Pool, assetAddr common.Address, asset Underlying, aToken actions.Token) *Adapter {
	return &Adapter{pool: pool, poolAddr: poolAddr, asset: asset, assetAdr: assetAddr, aToken: aToken}
}

// Binder resolves a registered pool address into its adapter.
type Binder func(pool common.Address) (*Adapter, error)

// PositionBalance implements the actions.PositionReader interface. The
// rebasing aToken balance is the position.
func (a *Adapter) PositionBalance(wallet common.Address) (*big.Int, error) {
	if a == nil || a.aToken == nil {
		return nil, errNilPool
	}
	return a.aToken.BalanceOf(wallet)
}

// FeeToken implements the actions.PositionReader interface. Fees are settled
// in aTokens.
func (a *Adapter) FeeToken() actions.Token { return a.aToken }

// UnderlyingBalance implements the actions.SupplyProtocol interface.
func (a *Adapter) UnderlyingBalance(wallet common.Address) (*big.Int, error) {
	return a.asset.BalanceOf(wallet)
}

// ApproveSpend implements the actions.SupplyProtocol interface.
func (a *Adapter) ApproveSpend(wallet common.Address, amount *big.Int) error {
	return a.asset.Approve(wallet, a.poolAddr, amount)
}

// Deposit implements the actions.SupplyProtocol interface. Aave does not
// report the aTokens minted, so nil is returned and the orchestrator diffs
// the rebasing balance.
func (a *Adapter) Deposit(wallet common.Address, amount *big.Int) (*big.Int, error) {
	if a == nil || a.pool == nil {
		return nil, errNilPool
	}
	if err := a.pool.Supply(wallet, a.assetAdr, amount); err != nil {
		return nil, err
	}
	return nil, nil
}

// MaxWithdraw implements the actions.WithdrawProtocol interface. The full
// rebasing balance is withdrawable; liquidity shortfalls surface as a
// failing Withdraw call.
func (a *Adapter) MaxWithdraw(wallet common.Address) (*big.Int, error) {
	return a.PositionBalance(wallet)
}

// Withdraw implements the actions.WithdrawProtocol interface.
func (a *Adapter) Withdraw(wallet common.Address, amount *big.Int) (*big.Int, error) {
	if a == nil || a.pool == nil {
		return nil, errNilPool
	}
	return a.pool.Withdraw(wallet, a.assetAdr, amount)
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
