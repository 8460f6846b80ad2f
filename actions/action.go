package actions

import (
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/core/events"
)

// ActionType classifies what an action does to a position.
type ActionType uint8

const (
	ActionTypeDeposit ActionType = iota
	ActionTypeWithdraw
	ActionTypeSwap
	ActionTypeCover
	ActionTypeFee
	ActionTypeTransfer
	ActionTypeCustom
)

// String returns the canonical lower-case name used in events and metrics.
func (t ActionType) String() string {
	switch t {
	case ActionTypeDeposit:
		return "deposit"
	case ActionTypeWithdraw:
		return "withdraw"
	case ActionTypeSwap:
		return "swap"
	case ActionTypeCover:
		return "cover"
	case ActionTypeFee:
		return "fee"
	case ActionTypeTransfer:
		return "transfer"
	default:
		return "custom"
	}
}

// Action is the entrypoint contract every adapter exposes to the dispatching
// wallet module. ExecuteAction decodes the opaque params payload and performs
// one atomic state transition; any error means the whole invocation must be
// unwound by the caller.
type Action interface {
	ExecuteAction(callData []byte, strategyID uint16) error
	ActionType() ActionType
	ProtocolName() string
}

// AdminVault is the registry and fee-configuration collaborator consumed by
// every action. Implementations own the pool registry, the protocol-wide fee
// recipient, and the per-position fee timestamps keyed by
// (wallet, keccak256(protocol), pool).
type AdminVault interface {
	ResolvePool(protocol string, poolID [4]byte) (common.Address, error)
	FeeRecipient() (common.Address, error)
	ValidateFeeBasis(bps uint16) error
	LastFeeTimestamp(wallet common.Address, protocol string, pool common.Address) (uint64, error)
	SetFeeTimestamp(wallet common.Address, protocol string, pool common.Address, timestamp uint64) error
}

var (
	errNoProtocol = errors.New("actions: protocol name not configured")
	errNoVault    = errors.New("actions: admin vault not configured")
	errNoWallet   = errors.New("actions: executing wallet not configured")
)

// Config carries the collaborators shared by every action: the executing
// wallet, the admin vault, and the event emitter. A nil Emitter defaults to a
// no-op; a nil Now defaults to the wall clock.
type Config struct {
	Protocol string
	Wallet   common.Address
	Vault    AdminVault
	Emitter  events.Emitter
	Now      func() int64
}

func (c Config) normalize() (Config, error) {
	c.Protocol = strings.TrimSpace(c.Protocol)
	if c.Protocol == "" {
		return c, errNoProtocol
	}
	if c.Vault == nil {
		return c, errNoVault
	}
	if c.Wallet == (common.Address{}) {
		return c, errNoWallet
	}
	if c.Emitter == nil {
		c.Emitter = events.NoopEmitter{}
	}
	if c.Now == nil {
		c.Now = func() int64 { return time.Now().Unix() }
	}
	return c, nil
}
