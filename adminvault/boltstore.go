package adminvault

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	bolt "go.etcd.io/bbolt"

	"safeactions/actions"
)

var (
	bucketPools      = []byte("pools")
	bucketTimestamps = []byte("feeTimestamps")
	bucketConfig     = []byte("config")

	keyFeeRecipient = []byte("feeRecipient")
	keyMaxFeeBasis  = []byte("maxFeeBasis")
)

// BoltVault is the durable admin vault, backed by a Bolt database. It
// implements the same actions.AdminVault contract as the in-memory Vault;
// each write is its own Bolt transaction, so it is not attached to the
// runner's snapshot set.
type BoltVault struct {
	db *bolt.DB
}

// OpenBolt initialises (and migrates) the Bolt-backed vault.
func OpenBolt(path string, options *bolt.Options) (*BoltVault, error) {
	if options == nil {
		options = &bolt.Options{Timeout: time.Second}
	} else if options.Timeout == 0 {
		options.Timeout = time.Second
	}
	db, err := bolt.Open(path, 0o600, options)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPools, bucketTimestamps, bucketConfig} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltVault{db: db}, nil
}

// Close releases the underlying database handle.
func (v *BoltVault) Close() error {
	if v == nil || v.db == nil {
		return nil
	}
	return v.db.Close()
}

// SetFeeRecipient persists the address fees are settled to.
func (v *BoltVault) SetFeeRecipient(recipient common.Address) error {
	return v.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfig).Put(keyFeeRecipient, recipient.Bytes())
	})
}

// SetMaxFeeBasis persists the fee basis cap.
func (v *BoltVault) SetMaxFeeBasis(bps uint16) error {
	if bps > defaultMaxFeeBasis {
		bps = defaultMaxFeeBasis
	}
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, bps)
	return v.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfig).Put(keyMaxFeeBasis, buf)
	})
}

// RegisterPool persists a pool registration and returns its identifier.
func (v *BoltVault) RegisterPool(protocol string, pool common.Address) ([4]byte, error) {
	if normalizeProtocol(protocol) == "" {
		return [4]byte{}, errEmptyProtocol
	}
	if pool == (common.Address{}) {
		return [4]byte{}, errZeroPool
	}
	id := PoolID(pool)
	err := v.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPools).Put(poolKey(protocol, id), pool.Bytes())
	})
	if err != nil {
		return [4]byte{}, err
	}
	return id, nil
}

// ResolvePool implements the actions.AdminVault interface.
func (v *BoltVault) ResolvePool(protocol string, poolID [4]byte) (common.Address, error) {
	var pool common.Address
	found := false
	err := v.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketPools).Get(poolKey(protocol, poolID))
		if len(raw) == common.AddressLength {
			pool = common.BytesToAddress(raw)
			found = true
		}
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	if !found {
		return common.Address{}, fmt.Errorf("%w: %s %s", actions.ErrUnknownPool, normalizeProtocol(protocol), hex.EncodeToString(poolID[:]))
	}
	return pool, nil
}

// FeeRecipient implements the actions.AdminVault interface.
func (v *BoltVault) FeeRecipient() (common.Address, error) {
	var recipient common.Address
	err := v.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketConfig).Get(keyFeeRecipient)
		if len(raw) == common.AddressLength {
			recipient = common.BytesToAddress(raw)
		}
		return nil
	})
	if err != nil {
		return common.Address{}, err
	}
	if recipient == (common.Address{}) {
		return common.Address{}, errNoRecipient
	}
	return recipient, nil
}

// ValidateFeeBasis implements the actions.AdminVault interface.
func (v *BoltVault) ValidateFeeBasis(bps uint16) error {
	max := uint16(defaultMaxFeeBasis)
	err := v.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketConfig).Get(keyMaxFeeBasis)
		if len(raw) == 2 {
			max = binary.BigEndian.Uint16(raw)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if max == 0 || max > defaultMaxFeeBasis {
		max = defaultMaxFeeBasis
	}
	if bps > max {
		return fmt.Errorf("%w: %d exceeds %d", actions.ErrInvalidFeeBasis, bps, max)
	}
	return nil
}

// LastFeeTimestamp implements the actions.AdminVault interface.
func (v *BoltVault) LastFeeTimestamp(wallet common.Address, protocol string, pool common.Address) (uint64, error) {
	var ts uint64
	err := v.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketTimestamps).Get(feeTimestampKey(wallet, protocol, pool))
		if len(raw) == 8 {
			ts = binary.BigEndian.Uint64(raw)
		}
		return nil
	})
	return ts, err
}

// SetFeeTimestamp implements the actions.AdminVault interface.
func (v *BoltVault) SetFeeTimestamp(wallet common.Address, protocol string, pool common.Address, timestamp uint64) error {
	if timestamp == 0 {
		return errZeroTimestamp
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, timestamp)
	return v.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTimestamps).Put(feeTimestampKey(wallet, protocol, pool), buf)
	})
}
