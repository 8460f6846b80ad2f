// Package erc4626 binds ERC4626-style share vaults (Yearn v3, Morpho vaults,
// and similar) to the generic action orchestrators.
package erc4626

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/actions"
)

// Vault models the ERC4626 entrypoints the adapter consumes. The wallet is
// passed explicitly because the adapter executes on behalf of the smart
// wallet rather than as itself.
type Vault interface {
	// BalanceOf reports the wallet's share balance.
	BalanceOf(owner common.Address) (*big.Int, error)
	// MaxWithdraw reports the largest underlying amount currently
	// withdrawable for the owner.
	MaxWithdraw(owner common.Address) (*big.Int, error)
	// Deposit supplies assets and returns the shares minted.
	Deposit(assets *big.Int, receiver common.Address) (*big.Int, error)
	// Withdraw redeems exactly assets of underlying and returns the shares
	// burned.
	Withdraw(assets *big.Int, receiver, owner common.Address) (*big.Int, error)
	// Redeem burns exactly shares and returns the assets released.
	Redeem(shares *big.Int, receiver, owner common.Address) (*big.Int, error)
}

// Underlying is the asset side of a vault: balance reads plus the allowance
// grant the vault pulls deposits through.
type Underlying interface {
	actions.Token
	Approve(owner, spender common.Address, amount *big.Int) error
}

var errNilVault = errors.New("erc4626: vault not configured")

// Adapter satisfies the supply, withdraw, and share-withdraw traits for one
// vault.
type Adapter struct {
	pool  common.Address
	vault Vault
	share actions.Token
	asset Underlying
}

// NewAdapter wires one vault with its share and asset tokens.
func NewAdapter(pool common.Address, vault Vault, share actions.Token, asset Underlying) *Adapter {
	return &Adapter{pool: pool, vault: vault, share: share, asset: asset}
}

// Binder resolves a registered pool address into its adapter.
type Binder func(pool common.Address) (*Adapter, error)

// PositionBalance implements the actions.PositionReader interface.
func (a *Adapter) PositionBalance(wallet common.Address) (*big.Int, error) {
	if a == nil || a.vault == nil {
		return nil, errNilVault
	}
	return a.vault.BalanceOf(wallet)
}

// FeeToken implements the actions.PositionReader interface. Fees are settled
// in vault shares.
func (a *Adapter) FeeToken() actions.Token { return a.share }

// UnderlyingBalance implements the actions.SupplyProtocol interface.
func (a *Adapter) UnderlyingBalance(wallet common.Address) (*big.Int, error) {
	return a.asset.BalanceOf(wallet)
}

// ApproveSpend implements the actions.SupplyProtocol interface. ERC4626
// vaults pull deposits directly, so the vault itself is the spender.
func (a *Adapter) ApproveSpend(wallet common.Address, amount *big.Int) error {
	return a.asset.Approve(wallet, a.pool, amount)
}

// Deposit implements the actions.SupplyProtocol interface. The vault reports
// shares minted directly, so the orchestrator never needs a balance diff.
func (a *Adapter) Deposit(wallet common.Address, amount *big.Int) (*big.Int, error) {
	if a == nil || a.vault == nil {
		return nil, errNilVault
	}
	return a.vault.Deposit(amount, wallet)
}

// MaxWithdraw implements the actions.WithdrawProtocol interface.
func (a *Adapter) MaxWithdraw(wallet common.Address) (*big.Int, error) {
	if a == nil || a.vault == nil {
		return nil, errNilVault
	}
	return a.vault.MaxWithdraw(wallet)
}

// Withdraw implements the actions.WithdrawProtocol interface. ERC4626
// withdraw is exact-out, so the underlying received equals the request.
func (a *Adapter) Withdraw(wallet common.Address, amount *big.Int) (*big.Int, error) {
	if a == nil || a.vault == nil {
		return nil, errNilVault
	}
	if _, err := a.vault.Withdraw(amount, wallet, wallet); err != nil {
		return nil, err
	}
	return new(big.Int).Set(amount), nil
}

// Redeem implements the actions.ShareWithdrawProtocol interface.
func (a *Adapter) Redeem(wallet common.Address, shares *big.Int) (*big.Int, error) {
	if a == nil || a.vault == nil {
		return nil, errNilVault
	}
	return a.vault.Redeem(shares, wallet, wallet)
}

// NewSupplyAction builds the deposit action for this vault shape.
func NewSupplyAction(cfg actions.Config, bind Binder) (*actions.SupplyAction, error) {
	return actions.NewSupplyAction(cfg, func(pool common.Address) (actions.SupplyProtocol, error) {
		return bind(pool)
	})
}

// NewWithdrawAction builds the underlying-denominated withdrawal action.
func NewWithdrawAction(cfg actions.Config, bind Binder) (*actions.WithdrawAction, error) {
	return actions.NewWithdrawAction(cfg, func(pool common.Address) (actions.WithdrawProtocol, error) {
		return bind(pool)
	})
}

// NewRedeemAction builds the share-denominated withdrawal action.
func NewRedeemAction(cfg actions.Config, bind Binder) (*actions.ShareWithdrawAction, error) {
	return actions.NewShareWithdrawAction(cfg, func(pool common.Address) (actions.ShareWithdrawProtocol, error) {
		return bind(pool)
	})
}

// NewExitAction builds the emergency full-withdrawal action.
func NewExitAction(cfg actions.Config, bind Binder) (*actions.ExitAction, error) {
	return actions.NewExitAction(cfg, func(pool common.Address) (actions.WithdrawProtocol, error) {
		return bind(pool)
	})
}
