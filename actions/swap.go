package actions

import (
	"fmt"

	"safeactions/core/events"
)

// SwapAction routes a token swap through one external router binding. Swaps
// hold no position, so there is no fee accrual step; the only guard is the
// caller's minimum-received bound.
type SwapAction struct {
	cfg    Config
	router Swapper
}

// NewSwapAction builds a swap action for one router binding.
func NewSwapAction(cfg Config, router Swapper) (*SwapAction, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if router == nil {
		return nil, fmt.Errorf("actions: %s router not configured", cfg.Protocol)
	}
	return &SwapAction{cfg: cfg, router: router}, nil
}

// ActionType implements the Action interface.
func (a *SwapAction) ActionType() ActionType { return ActionTypeSwap }

// ProtocolName implements the Action interface.
func (a *SwapAction) ProtocolName() string { return a.cfg.Protocol }

// ExecuteAction sells amount-in for the output token. The max-amount sentinel
// resolves to the wallet's full sell-token balance. The router's reported
// output is verified against the minimum bound rather than trusted.
func (a *SwapAction) ExecuteAction(callData []byte, strategyID uint16) error {
	params, err := DecodeSwapParams(callData)
	if err != nil {
		return err
	}
	amountIn := cloneAmount(params.AmountIn)
	if IsMaxAmount(amountIn) {
		balance, err := a.router.SellBalance(a.cfg.Wallet, params.TokenIn)
		if err != nil {
			return err
		}
		amountIn = cloneAmount(balance)
	}
	if amountIn.Sign() == 0 {
		return fmt.Errorf("%w: nothing to sell", ErrZeroAmount)
	}
	out, err := a.router.Swap(a.cfg.Wallet, params.TokenIn, params.TokenOut, amountIn, params.MinAmountOut, params.Payload)
	if err != nil {
		return fmt.Errorf("swap: %w", err)
	}
	if out == nil || out.Cmp(params.MinAmountOut) < 0 {
		return fmt.Errorf("%w: received %s, minimum %s", ErrSlippage, out, params.MinAmountOut)
	}
	a.cfg.Emitter.Emit(events.SwapExecuted{
		Protocol:   a.cfg.Protocol,
		StrategyID: strategyID,
		Wallet:     a.cfg.Wallet,
		TokenIn:    params.TokenIn,
		TokenOut:   params.TokenOut,
		AmountIn:   amountIn,
		AmountOut:  cloneAmount(out),
	})
	return nil
}
