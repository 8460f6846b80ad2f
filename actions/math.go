package actions

import (
	"math/big"

	"github.com/holiman/uint256"
)

var (
	basisPoints    = big.NewInt(10_000)
	secondsPerYear = big.NewInt(31_536_000)
	maxUint256     = new(uint256.Int).SetAllOne().ToBig()
)

// MaxAmount returns the sentinel value meaning "use the full available
// balance": the maximum representable uint256.
func MaxAmount() *big.Int {
	return new(big.Int).Set(maxUint256)
}

// IsMaxAmount reports whether v is the full-balance sentinel.
func IsMaxAmount(v *big.Int) bool {
	return v != nil && v.Cmp(maxUint256) == 0
}

// feeOwed computes the pro-rated annual fee on balance over elapsed seconds.
// Both divisions truncate, matching the conservative round-down fee
// semantics: fee = floor(floor(balance*bps/10000) * elapsed / secondsPerYear).
func feeOwed(balance *big.Int, bps uint16, elapsed uint64) *big.Int {
	if balance == nil || balance.Sign() <= 0 || bps == 0 || elapsed == 0 {
		return big.NewInt(0)
	}
	annual := new(big.Int).Mul(balance, new(big.Int).SetUint64(uint64(bps)))
	annual.Quo(annual, basisPoints)
	fee := annual.Mul(annual, new(big.Int).SetUint64(elapsed))
	return fee.Quo(fee, secondsPerYear)
}

func minAmount(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return big.NewInt(0)
	}
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
