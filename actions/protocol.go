package actions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token is the minimal ERC20-shaped surface the fee engine and swap
// orchestration need from a share or underlying token.
type Token interface {
	BalanceOf(owner common.Address) (*big.Int, error)
	Transfer(from, to common.Address, amount *big.Int) error
}

// PositionReader reports a wallet's position in a pool. Balances are in the
// pool's share units: ERC4626 shares, rebasing aToken balances, or Comet base
// balances depending on the protocol shape.
type PositionReader interface {
	PositionBalance(wallet common.Address) (*big.Int, error)
	// FeeToken is the token accrued fees are denominated and paid in. It is
	// the share token, not necessarily the underlying asset.
	FeeToken() Token
}

// SupplyProtocol binds a deposit-capable protocol integration.
type SupplyProtocol interface {
	PositionReader
	// UnderlyingBalance reports the wallet's spendable underlying balance,
	// used to resolve the max-amount sentinel.
	UnderlyingBalance(wallet common.Address) (*big.Int, error)
	// ApproveSpend grants the pool, or its router where the protocol
	// requires one, spending rights over amount of underlying.
	ApproveSpend(wallet common.Address, amount *big.Int) error
	// Deposit moves amount of underlying into the pool. Implementations
	// return the shares credited, or nil when the protocol does not report
	// them reliably; the orchestrator then falls back to a balance diff.
	Deposit(wallet common.Address, amount *big.Int) (*big.Int, error)
}

// WithdrawProtocol binds an underlying-denominated withdrawal integration.
type WithdrawProtocol interface {
	PositionReader
	// MaxWithdraw reports the largest underlying amount currently
	// withdrawable for the wallet.
	MaxWithdraw(wallet common.Address) (*big.Int, error)
	// Withdraw redeems amount of underlying. Implementations return the
	// underlying received, or nil when the protocol does not report it.
	Withdraw(wallet common.Address, amount *big.Int) (*big.Int, error)
}

// ShareWithdrawProtocol binds a share-denominated withdrawal integration:
// the caller names shares to burn rather than an underlying target.
type ShareWithdrawProtocol interface {
	PositionReader
	// Redeem burns exactly shares and returns the underlying received.
	Redeem(wallet common.Address, shares *big.Int) (*big.Int, error)
}

// QueueProtocol binds a protocol whose withdrawals settle asynchronously.
// RequestRedeem submits the redemption request and returns the protocol's
// request identifier; funds move only when the external queue processes it.
type QueueProtocol interface {
	PositionReader
	RequestRedeem(wallet common.Address, shares *big.Int) (string, error)
}

// Swapper binds an external swap router.
type Swapper interface {
	// SellBalance reports the wallet's spendable balance of token, used to
	// resolve the max-amount sentinel on the sell side.
	SellBalance(wallet common.Address, token common.Address) (*big.Int, error)
	// Swap sells amountIn of tokenIn for tokenOut through the router and
	// returns the amount of tokenOut received. The router payload is passed
	// through opaque.
	Swap(wallet common.Address, tokenIn, tokenOut common.Address, amountIn, minOut *big.Int, payload []byte) (*big.Int, error)
}
