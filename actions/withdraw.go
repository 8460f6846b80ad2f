package actions

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// WithdrawAction orchestrates underlying-denominated withdrawals: settle the
// fee, clamp the requested amount to the protocol's current maximum, redeem,
// and verify the caller's maximum-shares-burned bound.
type WithdrawAction struct {
	cfg  Config
	fees *FeeEngine
	bind func(pool common.Address) (WithdrawProtocol, error)
}

// NewWithdrawAction builds a withdrawal action for one protocol binding.
func NewWithdrawAction(cfg Config, bind func(pool common.Address) (WithdrawProtocol, error)) (*WithdrawAction, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if bind == nil {
		return nil, fmt.Errorf("actions: %s withdraw binding not configured", cfg.Protocol)
	}
	fees := NewFeeEngine(cfg.Vault, cfg.Protocol)
	fees.SetNowFunc(cfg.Now)
	return &WithdrawAction{cfg: cfg, fees: fees, bind: bind}, nil
}

// ActionType implements the Action interface.
func (a *WithdrawAction) ActionType() ActionType { return ActionTypeWithdraw }

// ProtocolName implements the Action interface.
func (a *WithdrawAction) ProtocolName() string { return a.cfg.Protocol }

// ExecuteAction performs one withdrawal. Over-requests, including the
// max-amount sentinel, silently clamp to the current max withdrawable; a
// request that resolves to zero is an error. The fee clock must have been
// started by a prior deposit.
func (a *WithdrawAction) ExecuteAction(callData []byte, strategyID uint16) error {
	params, err := DecodeWithdrawParams(callData)
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

	max, err := proto.MaxWithdraw(a.cfg.Wallet)
	if err != nil {
		return err
	}
	amount := minAmount(params.Amount, max)
	if amount.Sign() == 0 {
		return fmt.Errorf("%w: nothing withdrawable", ErrZeroAmount)
	}
	if _, err := proto.Withdraw(a.cfg.Wallet, amount); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}

	after, err := proto.PositionBalance(a.cfg.Wallet)
	if err != nil {
		return err
	}
	burned := new(big.Int).Sub(baseline, after)
	if burned.Cmp(params.MaxSharesBurned) > 0 {
		return fmt.Errorf("%w: burned %s shares, maximum %s", ErrBoundExceeded, burned, params.MaxSharesBurned)
	}
	recordBalanceUpdate(a.cfg, strategyID, params.PoolID, before, after, fee)
	return nil
}

// ShareWithdrawAction orchestrates share-denominated withdrawals: the caller
// names shares to burn, clamped to their actual share balance, and bounds the
// minimum underlying received.
type ShareWithdrawAction struct {
	cfg  Config
	fees *FeeEngine
	bind func(pool common.Address) (ShareWithdrawProtocol, error)
}

// NewShareWithdrawAction builds a share-denominated withdrawal action.
func NewShareWithdrawAction(cfg Config, bind func(pool common.Address) (ShareWithdrawProtocol, error)) (*ShareWithdrawAction, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if bind == nil {
		return nil, fmt.Errorf("actions: %s share withdraw binding not configured", cfg.Protocol)
	}
	fees := NewFeeEngine(cfg.Vault, cfg.Protocol)
	fees.SetNowFunc(cfg.Now)
	return &ShareWithdrawAction{cfg: cfg, fees: fees, bind: bind}, nil
}

// ActionType implements the Action interface.
func (a *ShareWithdrawAction) ActionType() ActionType { return ActionTypeWithdraw }

// ProtocolName implements the Action interface.
func (a *ShareWithdrawAction) ProtocolName() string { return a.cfg.Protocol }

// ExecuteAction burns up to the requested shares and checks the underlying
// received against the caller's minimum.
func (a *ShareWithdrawAction) ExecuteAction(callData []byte, strategyID uint16) error {
	params, err := DecodeShareWithdrawParams(callData)
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
		return fmt.Errorf("%w: no shares to redeem", ErrZeroAmount)
	}
	received, err := proto.Redeem(a.cfg.Wallet, shares)
	if err != nil {
		return fmt.Errorf("redeem: %w", err)
	}
	if received == nil || received.Cmp(params.MinUnderlyingReceived) < 0 {
		return fmt.Errorf("%w: received %s underlying, minimum %s", ErrBoundExceeded, received, params.MinUnderlyingReceived)
	}

	after, err := proto.PositionBalance(a.cfg.Wallet)
	if err != nil {
		return err
	}
	recordBalanceUpdate(a.cfg, strategyID, params.PoolID, before, after, fee)
	return nil
}

// ExitAction is the emergency full withdrawal: redeem 100% of the maximum
// determinable amount with no bounds. The fee step is attempted but an
// out-of-range fee basis or a failing charge degrades to a zero fee rather
// than blocking recovery.
type ExitAction struct {
	cfg  Config
	fees *FeeEngine
	bind func(pool common.Address) (WithdrawProtocol, error)
}

// NewExitAction builds an emergency-withdrawal action.
func NewExitAction(cfg Config, bind func(pool common.Address) (WithdrawProtocol, error)) (*ExitAction, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if bind == nil {
		return nil, fmt.Errorf("actions: %s exit binding not configured", cfg.Protocol)
	}
	fees := NewFeeEngine(cfg.Vault, cfg.Protocol)
	fees.SetNowFunc(cfg.Now)
	return &ExitAction{cfg: cfg, fees: fees, bind: bind}, nil
}

// ActionType implements the Action interface.
func (a *ExitAction) ActionType() ActionType { return ActionTypeWithdraw }

// ProtocolName implements the Action interface.
func (a *ExitAction) ProtocolName() string { return a.cfg.Protocol }

// ExecuteAction withdraws everything the protocol will currently release.
func (a *ExitAction) ExecuteAction(callData []byte, strategyID uint16) error {
	params, err := DecodeExitParams(callData)
	if err != nil {
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
	fee := big.NewInt(0)
	if a.cfg.Vault.ValidateFeeBasis(params.FeeBasis) == nil {
		if charged, err := a.fees.Charge(a.cfg.Wallet, pool, params.FeeBasis, proto.FeeToken(), before); err == nil {
			fee = charged
		}
	}

	max, err := proto.MaxWithdraw(a.cfg.Wallet)
	if err != nil {
		return err
	}
	if max.Sign() == 0 {
		return fmt.Errorf("%w: nothing withdrawable", ErrZeroAmount)
	}
	if _, err := proto.Withdraw(a.cfg.Wallet, max); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}

	after, err := proto.PositionBalance(a.cfg.Wallet)
	if err != nil {
		return err
	}
	recordBalanceUpdate(a.cfg, strategyID, params.PoolID, before, after, fee)
	return nil
}
