package actions

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SupplyAction orchestrates deposits into one protocol: validate params,
// resolve the pool, settle or start the fee clock, move funds, and verify the
// caller's minimum-shares bound. All position state lives with the external
// protocol and the admin vault; the action itself is stateless across calls.
type SupplyAction struct {
	cfg  Config
	fees *FeeEngine
	bind func(pool common.Address) (SupplyProtocol, error)
}

// NewSupplyAction builds a deposit action for one protocol binding.
func NewSupplyAction(cfg Config, bind func(pool common.Address) (SupplyProtocol, error)) (*SupplyAction, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if bind == nil {
		return nil, fmt.Errorf("actions: %s supply binding not configured", cfg.Protocol)
	}
	fees := NewFeeEngine(cfg.Vault, cfg.Protocol)
	fees.SetNowFunc(cfg.Now)
	return &SupplyAction{cfg: cfg, fees: fees, bind: bind}, nil
}

// ActionType implements the Action interface.
func (a *SupplyAction) ActionType() ActionType { return ActionTypeDeposit }

// ProtocolName implements the Action interface.
func (a *SupplyAction) ProtocolName() string { return a.cfg.Protocol }

// ExecuteAction performs one deposit. Amount zero is the explicit fee-only
// signal: the fee step runs and the deposit is skipped entirely. The
// max-amount sentinel resolves to the wallet's full spendable underlying
// balance; if that resolves to zero the call fails rather than silently
// no-op.
func (a *SupplyAction) ExecuteAction(callData []byte, strategyID uint16) error {
	params, err := DecodeSupplyParams(callData)
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

	fee := big.NewInt(0)
	if before.Sign() == 0 {
		if err := a.fees.Start(a.cfg.Wallet, pool); err != nil {
			return err
		}
	} else {
		fee, err = a.fees.Charge(a.cfg.Wallet, pool, params.FeeBasis, proto.FeeToken(), before)
		if err != nil {
			return err
		}
	}

	if params.Amount.Sign() != 0 {
		amount := cloneAmount(params.Amount)
		if IsMaxAmount(amount) {
			amount, err = proto.UnderlyingBalance(a.cfg.Wallet)
			if err != nil {
				return err
			}
			amount = cloneAmount(amount)
		}
		if amount.Sign() == 0 {
			return fmt.Errorf("%w: full-balance deposit with empty wallet", ErrZeroAmount)
		}

		// Diff against the post-fee balance so the fee transfer does not
		// count against the shares received.
		baseline, err := proto.PositionBalance(a.cfg.Wallet)
		if err != nil {
			return err
		}
		if err := proto.ApproveSpend(a.cfg.Wallet, amount); err != nil {
			return err
		}
		shares, err := proto.Deposit(a.cfg.Wallet, amount)
		if err != nil {
			return fmt.Errorf("deposit: %w", err)
		}
		if shares == nil {
			current, err := proto.PositionBalance(a.cfg.Wallet)
			if err != nil {
				return err
			}
			shares = new(big.Int).Sub(current, baseline)
		}
		if shares.Cmp(params.MinSharesReceived) < 0 {
			return fmt.Errorf("%w: received %s shares, minimum %s", ErrSlippage, shares, params.MinSharesReceived)
		}
	}

	after, err := proto.PositionBalance(a.cfg.Wallet)
	if err != nil {
		return err
	}
	recordBalanceUpdate(a.cfg, strategyID, params.PoolID, before, after, fee)
	return nil
}
