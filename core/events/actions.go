package events

import (
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// TypeBalanceUpdated marks a completed deposit, withdrawal, or fee-only
	// execution against a position.
	TypeBalanceUpdated = "actions.balance_updated"
	// TypeWithdrawalRequested marks a redemption request submitted to an
	// external withdrawal queue. Funds have not moved yet.
	TypeWithdrawalRequested = "actions.withdrawal_requested"
	// TypeSwapExecuted marks a completed swap through an external router.
	TypeSwapExecuted = "actions.swap_executed"
)

// BalanceUpdated records the before/after share balance of one execution so
// indexers can reconstruct position history purely from the event stream.
type BalanceUpdated struct {
	Protocol      string
	StrategyID    uint16
	PoolID        [4]byte
	Wallet        common.Address
	BalanceBefore *big.Int
	BalanceAfter  *big.Int
	Fee           *big.Int
}

// EventType satisfies the events.Payload interface.
func (BalanceUpdated) EventType() string { return TypeBalanceUpdated }

// Event converts the structured payload into a broadcastable event.
func (e BalanceUpdated) Event() *Event {
	attrs := map[string]string{
		"strategyId":    strconv.FormatUint(uint64(e.StrategyID), 10),
		"poolId":        hex.EncodeToString(e.PoolID[:]),
		"balanceBefore": formatAmount(e.BalanceBefore),
		"balanceAfter":  formatAmount(e.BalanceAfter),
		"fee":           formatAmount(e.Fee),
	}
	if protocol := strings.TrimSpace(e.Protocol); protocol != "" {
		attrs["protocol"] = protocol
	}
	if e.Wallet != (common.Address{}) {
		attrs["wallet"] = e.Wallet.Hex()
	}
	return &Event{Type: TypeBalanceUpdated, Attributes: attrs}
}

// WithdrawalRequested records a queued redemption. The caller must track the
// pending request out-of-band; settlement is owned by the external protocol.
type WithdrawalRequested struct {
	Protocol   string
	StrategyID uint16
	PoolID     [4]byte
	Wallet     common.Address
	Shares     *big.Int
	Fee        *big.Int
	RequestID  string
}

// EventType satisfies the events.Payload interface.
func (WithdrawalRequested) EventType() string { return TypeWithdrawalRequested }

// Event converts the structured payload into a broadcastable event.
func (e WithdrawalRequested) Event() *Event {
	attrs := map[string]string{
		"strategyId": strconv.FormatUint(uint64(e.StrategyID), 10),
		"poolId":     hex.EncodeToString(e.PoolID[:]),
		"shares":     formatAmount(e.Shares),
		"fee":        formatAmount(e.Fee),
	}
	if protocol := strings.TrimSpace(e.Protocol); protocol != "" {
		attrs["protocol"] = protocol
	}
	if e.Wallet != (common.Address{}) {
		attrs["wallet"] = e.Wallet.Hex()
	}
	if request := strings.TrimSpace(e.RequestID); request != "" {
		attrs["requestId"] = request
	}
	return &Event{Type: TypeWithdrawalRequested, Attributes: attrs}
}

// SwapExecuted records a completed router swap.
type SwapExecuted struct {
	Protocol   string
	StrategyID uint16
	Wallet     common.Address
	TokenIn    common.Address
	TokenOut   common.Address
	AmountIn   *big.Int
	AmountOut  *big.Int
}

// EventType satisfies the events.Payload interface.
func (SwapExecuted) EventType() string { return TypeSwapExecuted }

// Event converts the structured payload into a broadcastable event.
func (e SwapExecuted) Event() *Event {
	attrs := map[string]string{
		"strategyId": strconv.FormatUint(uint64(e.StrategyID), 10),
		"tokenIn":    e.TokenIn.Hex(),
		"tokenOut":   e.TokenOut.Hex(),
		"amountIn":   formatAmount(e.AmountIn),
		"amountOut":  formatAmount(e.AmountOut),
	}
	if protocol := strings.TrimSpace(e.Protocol); protocol != "" {
		attrs["protocol"] = protocol
	}
	if e.Wallet != (common.Address{}) {
		attrs["wallet"] = e.Wallet.Hex()
	}
	return &Event{Type: TypeSwapExecuted, Attributes: attrs}
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
