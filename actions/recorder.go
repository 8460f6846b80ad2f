package actions

import (
	"math/big"

	"safeactions/core/events"
)

// recordBalanceUpdate publishes the canonical before/after record for one
// execution. Emitted exactly once per successful ExecuteAction, after all
// state mutations; off-chain indexers reconstruct position history purely
// from these events.
func recordBalanceUpdate(cfg Config, strategyID uint16, poolID [4]byte, before, after, fee *big.Int) {
	cfg.Emitter.Emit(events.BalanceUpdated{
		Protocol:      cfg.Protocol,
		StrategyID:    strategyID,
		PoolID:        poolID,
		Wallet:        cfg.Wallet,
		BalanceBefore: cloneAmount(before),
		BalanceAfter:  cloneAmount(after),
		Fee:           cloneAmount(fee),
	})
}

// recordWithdrawalRequest publishes the queued-redemption record. It replaces
// the balance update for queue-based withdrawals: the terminal state is
// "request submitted", not "funds received".
func recordWithdrawalRequest(cfg Config, strategyID uint16, poolID [4]byte, shares, fee *big.Int, requestID string) {
	cfg.Emitter.Emit(events.WithdrawalRequested{
		Protocol:   cfg.Protocol,
		StrategyID: strategyID,
		PoolID:     poolID,
		Wallet:     cfg.Wallet,
		Shares:     cloneAmount(shares),
		Fee:        cloneAmount(fee),
		RequestID:  requestID,
	})
}
