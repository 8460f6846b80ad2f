// Package paraswap binds aggregator-style swap routers (Paraswap, 0x) to the
// swap orchestrator.
package paraswap

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/actions"
)

// Router models the aggregator entrypoint the adapter consumes. The payload
// is the route calldata produced off-chain and passed through opaque.
type Router interface {
	Swap(from common.Address, tokenIn, tokenOut common.Address, amountIn, minOut *big.Int, payload []byte) (*big.Int, error)
}

// TokenResolver looks up the token surface for a sell-side asset so the max
// sentinel can resolve to the wallet's full balance.
type TokenResolver func(token common.Address) (actions.Token, error)

var errNilRouter = errors.New("paraswap: router not configured")

// Adapter satisfies the actions.Swapper trait for one router.
type Adapter struct {
	router Router
	tokens TokenResolver
}

// NewAdapter wires one router with its token resolver.
func NewAdapter(router Router, tokens TokenResolver) *Adapter {
	return &Adapter{router: router, tokens: tokens}
}

// SellBalance implements the actions.Swapper interface.
func (a *Adapter) SellBalance(wallet common.Address, token common.Address) (*big.Int, error) {
	if a == nil || a.tokens == nil {
		return nil, errNilRouter
	}
	tok, err := a.tokens(token)
	if err != nil {
		return nil, err
	}
	return tok.BalanceOf(wallet)
}

// Swap implements the actions.Swapper interface.
func (a *Adapter) Swap(wallet common.Address, tokenIn, tokenOut common.Address, amountIn, minOut *big.Int, payload []byte) (*big.Int, error) {
	if a == nil || a.router == nil {
		return nil, errNilRouter
	}
	return a.router.Swap(wallet, tokenIn, tokenOut, amountIn, minOut, payload)
}

// NewSwapAction builds the swap action for this router.
func NewSwapAction(cfg actions.Config, adapter *Adapter) (*actions.SwapAction, error) {
	if adapter == nil {
		return nil, errNilRouter
	}
	return actions.NewSwapAction(cfg, adapter)
}
