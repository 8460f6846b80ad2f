package actions

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Params payloads arrive as ABI-encoded tuples so the wallet module can stay
// protocol-agnostic. One tuple shape per action family; every decode
// validates amounts fit 256 bits before the orchestration runs.

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("actions: abi type %s: %v", t, err))
	}
	return typ
}

var (
	typeBytes4  = mustType("bytes4")
	typeUint16  = mustType("uint16")
	typeUint256 = mustType("uint256")
	typeAddress = mustType("address")
	typeBytes   = mustType("bytes")
)

var (
	supplyArgs = abi.Arguments{
		{Name: "poolId", Type: typeBytes4},
		{Name: "feeBasis", Type: typeUint16},
		{Name: "amount", Type: typeUint256},
		{Name: "minSharesReceived", Type: typeUint256},
	}
	withdrawArgs = abi.Arguments{
		{Name: "poolId", Type: typeBytes4},
		{Name: "feeBasis", Type: typeUint16},
		{Name: "amount", Type: typeUint256},
		{Name: "maxSharesBurned", Type: typeUint256},
	}
	shareWithdrawArgs = abi.Arguments{
		{Name: "poolId", Type: typeBytes4},
		{Name: "feeBasis", Type: typeUint16},
		{Name: "shares", Type: typeUint256},
		{Name: "minUnderlyingReceived", Type: typeUint256},
	}
	requestArgs = abi.Arguments{
		{Name: "poolId", Type: typeBytes4},
		{Name: "feeBasis", Type: typeUint16},
		{Name: "shares", Type: typeUint256},
	}
	exitArgs = abi.Arguments{
		{Name: "poolId", Type: typeBytes4},
		{Name: "feeBasis", Type: typeUint16},
	}
	swapArgs = abi.Arguments{
		{Name: "tokenIn", Type: typeAddress},
		{Name: "tokenOut", Type: typeAddress},
		{Name: "amountIn", Type: typeUint256},
		{Name: "minAmountOut", Type: typeUint256},
		{Name: "payload", Type: typeBytes},
	}
)

// SupplyParams parameterises a deposit. Amount zero means a fee-only ping;
// the max-amount sentinel means deposit the full spendable underlying
// balance.
type SupplyParams struct {
	PoolID            [4]byte
	FeeBasis          uint16
	Amount            *big.Int
	MinSharesReceived *big.Int
}

// Encode packs the params into the wire payload consumed by ExecuteAction.
func (p SupplyParams) Encode() ([]byte, error) {
	return supplyArgs.Pack(p.PoolID, p.FeeBasis, cloneAmount(p.Amount), cloneAmount(p.MinSharesReceived))
}

// DecodeSupplyParams unpacks a deposit payload.
func DecodeSupplyParams(data []byte) (SupplyParams, error) {
	vals, err := supplyArgs.Unpack(data)
	if err != nil {
		return SupplyParams{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p := SupplyParams{
		PoolID:            vals[0].([4]byte),
		FeeBasis:          vals[1].(uint16),
		Amount:            vals[2].(*big.Int),
		MinSharesReceived: vals[3].(*big.Int),
	}
	if err := checkAmount(p.Amount); err != nil {
		return SupplyParams{}, err
	}
	if err := checkAmount(p.MinSharesReceived); err != nil {
		return SupplyParams{}, err
	}
	return p, nil
}

// WithdrawParams parameterises an underlying-denominated withdrawal. Amounts
// above the current max withdrawable, including the sentinel, clamp to the
// max.
type WithdrawParams struct {
	PoolID          [4]byte
	FeeBasis        uint16
	Amount          *big.Int
	MaxSharesBurned *big.Int
}

// Encode packs the params into the wire payload consumed by ExecuteAction.
func (p WithdrawParams) Encode() ([]byte, error) {
	return withdrawArgs.Pack(p.PoolID, p.FeeBasis, cloneAmount(p.Amount), cloneAmount(p.MaxSharesBurned))
}

// DecodeWithdrawParams unpacks a withdrawal payload.
func DecodeWithdrawParams(data []byte) (WithdrawParams, error) {
	vals, err := withdrawArgs.Unpack(data)
	if err != nil {
		return WithdrawParams{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p := WithdrawParams{
		PoolID:          vals[0].([4]byte),
		FeeBasis:        vals[1].(uint16),
		Amount:          vals[2].(*big.Int),
		MaxSharesBurned: vals[3].(*big.Int),
	}
	if err := checkAmount(p.Amount); err != nil {
		return WithdrawParams{}, err
	}
	if err := checkAmount(p.MaxSharesBurned); err != nil {
		return WithdrawParams{}, err
	}
	return p, nil
}

// ShareWithdrawParams parameterises a share-denominated withdrawal.
type ShareWithdrawParams struct {
	PoolID                [4]byte
	FeeBasis              uint16
	Shares                *big.Int
	MinUnderlyingReceived *big.Int
}

// Encode packs the params into the wire payload consumed by ExecuteAction.
func (p ShareWithdrawParams) Encode() ([]byte, error) {
	return shareWithdrawArgs.Pack(p.PoolID, p.FeeBasis, cloneAmount(p.Shares), cloneAmount(p.MinUnderlyingReceived))
}

// DecodeShareWithdrawParams unpacks a share-denominated withdrawal payload.
func DecodeShareWithdrawParams(data []byte) (ShareWithdrawParams, error) {
	vals, err := shareWithdrawArgs.Unpack(data)
	if err != nil {
		return ShareWithdrawParams{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p := ShareWithdrawParams{
		PoolID:                vals[0].([4]byte),
		FeeBasis:              vals[1].(uint16),
		Shares:                vals[2].(*big.Int),
		MinUnderlyingReceived: vals[3].(*big.Int),
	}
	if err := checkAmount(p.Shares); err != nil {
		return ShareWithdrawParams{}, err
	}
	if err := checkAmount(p.MinUnderlyingReceived); err != nil {
		return ShareWithdrawParams{}, err
	}
	return p, nil
}

// RequestParams parameterises a queued redemption request.
type RequestParams struct {
	PoolID   [4]byte
	FeeBasis uint16
	Shares   *big.Int
}

// Encode packs the params into the wire payload consumed by ExecuteAction.
func (p RequestParams) Encode() ([]byte, error) {
	return requestArgs.Pack(p.PoolID, p.FeeBasis, cloneAmount(p.Shares))
}

// DecodeRequestParams unpacks a queued-redemption payload.
func DecodeRequestParams(data []byte) (RequestParams, error) {
	vals, err := requestArgs.Unpack(data)
	if err != nil {
		return RequestParams{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p := RequestParams{
		PoolID:   vals[0].([4]byte),
		FeeBasis: vals[1].(uint16),
		Shares:   vals[2].(*big.Int),
	}
	if err := checkAmount(p.Shares); err != nil {
		return RequestParams{}, err
	}
	return p, nil
}

// ExitParams parameterises an emergency full withdrawal.
type ExitParams struct {
	PoolID   [4]byte
	FeeBasis uint16
}

// Encode packs the params into the wire payload consumed by ExecuteAction.
func (p ExitParams) Encode() ([]byte, error) {
	return exitArgs.Pack(p.PoolID, p.FeeBasis)
}

// DecodeExitParams unpacks an emergency-withdrawal payload.
func DecodeExitParams(data []byte) (ExitParams, error) {
	vals, err := exitArgs.Unpack(data)
	if err != nil {
		return ExitParams{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return ExitParams{
		PoolID:   vals[0].([4]byte),
		FeeBasis: vals[1].(uint16),
	}, nil
}

// SwapParams parameterises a router swap. Payload is the router-specific
// calldata passed through opaque.
type SwapParams struct {
	TokenIn      common.Address
	TokenOut     common.Address
	AmountIn     *big.Int
	MinAmountOut *big.Int
	Payload      []byte
}

// Encode packs the params into the wire payload consumed by ExecuteAction.
func (p SwapParams) Encode() ([]byte, error) {
	return swapArgs.Pack(p.TokenIn, p.TokenOut, cloneAmount(p.AmountIn), cloneAmount(p.MinAmountOut), p.Payload)
}

// DecodeSwapParams unpacks a swap payload.
func DecodeSwapParams(data []byte) (SwapParams, error) {
	vals, err := swapArgs.Unpack(data)
	if err != nil {
		return SwapParams{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	p := SwapParams{
		TokenIn:      vals[0].(common.Address),
		TokenOut:     vals[1].(common.Address),
		AmountIn:     vals[2].(*big.Int),
		MinAmountOut: vals[3].(*big.Int),
		Payload:      vals[4].([]byte),
	}
	if err := checkAmount(p.AmountIn); err != nil {
		return SwapParams{}, err
	}
	if err := checkAmount(p.MinAmountOut); err != nil {
		return SwapParams{}, err
	}
	return p, nil
}

func checkAmount(v *big.Int) error {
	if v == nil || v.Sign() < 0 {
		return fmt.Errorf("%w: amount missing or negative", ErrInvalidInput)
	}
	if _, overflow := uint256.FromBig(v); overflow {
		return fmt.Errorf("%w: amount exceeds uint256", ErrInvalidInput)
	}
	return nil
}
