package actions

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/observability"
)

// FeeEngine accrues the time-proportional management fee on a position and
// settles it to the configured recipient. The fee clock lives in the admin
// vault keyed by (wallet, protocol, pool); the engine never caches it across
// calls.
type FeeEngine struct {
	vault    AdminVault
	protocol string
	nowFn    func() int64
}

// NewFeeEngine constructs a fee engine for one protocol integration.
func NewFeeEngine(vault AdminVault, protocol string) *FeeEngine {
	return &FeeEngine{
		vault:    vault,
		protocol: strings.TrimSpace(protocol),
		nowFn:    func() int64 { return time.Now().Unix() },
	}
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (f *FeeEngine) SetNowFunc(now func() int64) {
	if f == nil {
		return
	}
	if now == nil {
		f.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	f.nowFn = now
}

func (f *FeeEngine) now() uint64 {
	if f == nil || f.nowFn == nil {
		return uint64(time.Now().Unix())
	}
	return uint64(f.nowFn())
}

// Start seeds the fee clock for a freshly opened position without charging
// for a nonexistent holding period. Called only when a deposit finds a zero
// balance.
func (f *FeeEngine) Start(wallet, pool common.Address) error {
	if f == nil || f.vault == nil {
		return errNoVault
	}
	return f.vault.SetFeeTimestamp(wallet, f.protocol, pool, f.now())
}

// Charge settles the fee accrued on balance since the last collection:
// floor(floor(balance*bps/10000) * elapsed / secondsPerYear), paid in the
// share token. The stored timestamp advances to now even when the fee rounds
// to zero, so subsequent calculations use a fresh baseline. A second call in
// the same second always charges zero.
func (f *FeeEngine) Charge(wallet, pool common.Address, feeBps uint16, token Token, balance *big.Int) (*big.Int, error) {
	if f == nil || f.vault == nil {
		return nil, errNoVault
	}
	last, err := f.vault.LastFeeTimestamp(wallet, f.protocol, pool)
	if err != nil {
		return nil, err
	}
	if last == 0 {
		return nil, fmt.Errorf("%w: %s pool %s", ErrFeeClockNotStarted, f.protocol, pool.Hex())
	}
	now := f.now()
	if last >= now {
		return big.NewInt(0), nil
	}
	fee := feeOwed(balance, feeBps, now-last)
	if fee.Sign() > 0 {
		recipient, err := f.vault.FeeRecipient()
		if err != nil {
			return nil, err
		}
		if token == nil {
			return nil, fmt.Errorf("actions: fee token not bound for %s", f.protocol)
		}
		if err := token.Transfer(wallet, recipient, fee); err != nil {
			return nil, fmt.Errorf("fee transfer: %w", err)
		}
		observability.Actions().FeeCollected(f.protocol)
	}
	if err := f.vault.SetFeeTimestamp(wallet, f.protocol, pool, now); err != nil {
		return nil, err
	}
	return fee, nil
}
