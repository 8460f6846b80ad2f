// Package adminvault is the registry and fee-configuration collaborator for
// the actions core: which pools are registered per protocol, who receives
// fees, and when each position last paid them. Vault is the in-memory,
// snapshot-capable implementation; BoltVault persists the same contract.
package adminvault

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/actions"
)

var (
	errNoRecipient   = errors.New("adminvault: fee recipient not configured")
	errEmptyProtocol = errors.New("adminvault: protocol name required")
	errZeroPool      = errors.New("adminvault: zero pool address")
	errZeroTimestamp = errors.New("adminvault: zero fee timestamp")
)

const defaultMaxFeeBasis = 10_000

// Vault is the in-memory admin vault. Executions are serialized by the host
// environment, so no locking is done here; atomicity comes from the runner
// snapshotting the vault around each execution.
type Vault struct {
	feeRecipient common.Address
	maxFeeBasis  uint16
	pools        map[string]common.Address
	timestamps   map[string]uint64
	snapshots    []vaultSnapshot
}

type vaultSnapshot struct {
	feeRecipient common.Address
	maxFeeBasis  uint16
	pools        map[string]common.Address
	timestamps   map[string]uint64
}

// NewVault constructs an empty vault with the full 0-10000 fee basis range
// allowed.
func NewVault() *Vault {
	return &Vault{
		maxFeeBasis: defaultMaxFeeBasis,
		pools:       make(map[string]common.Address),
		timestamps:  make(map[string]uint64),
	}
}

// SetFeeRecipient configures the address fees are settled to.
func (v *Vault) SetFeeRecipient(recipient common.Address) {
	if v == nil {
		return
	}
	v.feeRecipient = recipient
}

// SetMaxFeeBasis caps the fee basis accepted by ValidateFeeBasis. Values
// above 10000 clamp to 10000.
func (v *Vault) SetMaxFeeBasis(bps uint16) {
	if v == nil {
		return
	}
	if bps > defaultMaxFeeBasis {
		bps = defaultMaxFeeBasis
	}
	v.maxFeeBasis = bps
}

// RegisterPool adds a pool for a protocol and returns its 4-byte identifier.
func (v *Vault) RegisterPool(protocol string, pool common.Address) ([4]byte, error) {
	if normalizeProtocol(protocol) == "" {
		return [4]byte{}, errEmptyProtocol
	}
	if pool == (common.Address{}) {
		return [4]byte{}, errZeroPool
	}
	id := PoolID(pool)
	v.pools[string(poolKey(protocol, id))] = pool
	return id, nil
}

// RemovePool drops a pool registration.
func (v *Vault) RemovePool(protocol string, poolID [4]byte) {
	if v == nil {
		return
	}
	delete(v.pools, string(poolKey(protocol, poolID)))
}

// ResolvePool implements the actions.AdminVault interface.
func (v *Vault) ResolvePool(protocol string, poolID [4]byte) (common.Address, error) {
	pool, ok := v.pools[string(poolKey(protocol, poolID))]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s %s", actions.ErrUnknownPool, normalizeProtocol(protocol), hex.EncodeToString(poolID[:]))
	}
	return pool, nil
}

// FeeRecipient implements the actions.AdminVault interface.
func (v *Vault) FeeRecipient() (common.Address, error) {
	if v.feeRecipient == (common.Address{}) {
		return common.Address{}, errNoRecipient
	}
	return v.feeRecipient, nil
}

// ValidateFeeBasis implements the actions.AdminVault interface.
func (v *Vault) ValidateFeeBasis(bps uint16) error {
	max := v.maxFeeBasis
	if max == 0 || max > defaultMaxFeeBasis {
		max = defaultMaxFeeBasis
	}
	if bps > max {
		return fmt.Errorf("%w: %d exceeds %d", actions.ErrInvalidFeeBasis, bps, max)
	}
	return nil
}

// LastFeeTimestamp implements the actions.AdminVault interface. Zero means
// the position's fee clock was never started.
func (v *Vault) LastFeeTimestamp(wallet common.Address, protocol string, pool common.Address) (uint64, error) {
	return v.timestamps[string(feeTimestampKey(wallet, protocol, pool))], nil
}

// SetFeeTimestamp implements the actions.AdminVault interface. Records are
// created on first deposit, updated on every fee settlement, and never
// deleted.
func (v *Vault) SetFeeTimestamp(wallet common.Address, protocol string, pool common.Address, timestamp uint64) error {
	if timestamp == 0 {
		return errZeroTimestamp
	}
	v.timestamps[string(feeTimestampKey(wallet, protocol, pool))] = timestamp
	return nil
}

// Snapshot implements the actions.Snapshotter interface.
func (v *Vault) Snapshot() int {
	snap := vaultSnapshot{
		feeRecipient: v.feeRecipient,
		maxFeeBasis:  v.maxFeeBasis,
		pools:        make(map[string]common.Address, len(v.pools)),
		timestamps:   make(map[string]uint64, len(v.timestamps)),
	}
	for k, addr := range v.pools {
		snap.pools[k] = addr
	}
	for k, ts := range v.timestamps {
		snap.timestamps[k] = ts
	}
	v.snapshots = append(v.snapshots, snap)
	return len(v.snapshots) - 1
}

// RevertToSnapshot implements the actions.Snapshotter interface. Snapshots
// taken after id are discarded.
func (v *Vault) RevertToSnapshot(id int) {
	if v == nil || id < 0 || id >= len(v.snapshots) {
		return
	}
	snap := v.snapshots[id]
	v.feeRecipient = snap.feeRecipient
	v.maxFeeBasis = snap.maxFeeBasis
	v.pools = snap.pools
	v.timestamps = snap.timestamps
	v.snapshots = v.snapshots[:id]
}
