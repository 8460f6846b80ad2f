package actions

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RequestWithdrawAction submits a redemption request to a protocol whose
// withdrawals settle asynchronously. No funds move here: the terminal state
// is "request submitted" and the caller tracks the pending request
// out-of-band. Rejecting duplicate requests before the prior one settles is
// the responsibility of the upstream guard, not this action.
type RequestWithdrawAction struct {
	cfg  Config
	fees *FeeEngine
	bind func(pool common.Address) (QueueProtocol, error)
}

// NewRequestWithdrawAction builds a queued-redemption action.
func NewRequestWithdrawAction(cfg Config, bind func(pool common.Address) (QueueProtocol, error)) (*RequestWithdrawAction, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if bind == nil {
		return nil, fmt.Errorf("actions: %s queue binding not configured", cfg.Protocol)
	}
	fees := NewFeeEngine(cfg.Vault, cfg.Protocol)
	fees.SetNowFunc(cfg.Now)
	return &RequestWithdrawAction{cfg: cfg, fees: fees, bind: bind}, nil
}

// ActionType implements the Action interface.
func (a *RequestWithdrawAction) ActionType() ActionType { return ActionTypeWithdraw }

// ProtocolName implements the Action interface.
func (a *RequestWithdrawAction) ProtocolName() string { return a.cfg.Protocol }

// ExecuteAction settles the accrued fee, clamps the requested shares to the
// wallet's balance, and submits the redemption request. It emits a
// withdrawal-request event instead of a balance update.
func (a *RequestWithdrawAction) ExecuteAction(callData []byte, strategyID uint16) error {
	params, err := DecodeRequestParams(callData)
	if err != nil {
		return err
	}
	if err := a.cfg.Vault.ValidateFeeBasis(params.FeeBasis); err != nil {
		return err
	}
	pool, err := a.cfg.Vault.ResolvePool(a.cfg.Protocol, params.PoolID)
	if err != nil {
		return err
	}
	proto, err := a.bind(pool)
	if err != nil {
		return err
	}

	before, err := proto.PositionBalance(a.cfg.Wallet)
	if err != nil {
		return err
	}
	fee, err := a.fees.Charge(a.cfg.Wallet, pool, params.FeeBasis, proto.FeeToken(), before)
	if err != nil {
		return err
	}
	baseline, err := proto.PositionBalance(a.cfg.Wallet)
	if err != nil {
		return err
	}

	shares := minAmount(params.Shares, baseline)
	if shares.Sign() == 0 {
		return fmt.Errorf("%w: no shares to request", ErrZeroAmount)
	}
	requestID, err := proto.RequestRedeem(a.cfg.Wallet, shares)
	if err != nil {
		return fmt.Errorf("request redeem: %w", err)
	}
	recordWithdrawalRequest(a.cfg, strategyID, params.PoolID, shares, fee, requestID)
	return nil
}
