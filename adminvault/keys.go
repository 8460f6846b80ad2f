package adminvault

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var (
	feeTimestampPrefix = []byte("adminvault/fee-ts/")
	poolPrefix         = []byte("adminvault/pool/")
)

func normalizeProtocol(protocol string) string {
	return strings.TrimSpace(protocol)
}

// PoolID derives the 4-byte identifier actions use on the wire: the first
// four bytes of keccak256 over the pool address.
func PoolID(pool common.Address) [4]byte {
	var id [4]byte
	copy(id[:], ethcrypto.Keccak256(pool.Bytes())[:4])
	return id
}

// feeTimestampKey is wallet ++ keccak256(protocol) ++ pool, matching the
// persisted state layout consumed by the actions core.
func feeTimestampKey(wallet common.Address, protocol string, pool common.Address) []byte {
	hash := ethcrypto.Keccak256([]byte(normalizeProtocol(protocol)))
	buf := make([]byte, 0, len(feeTimestampPrefix)+common.AddressLength*2+len(hash))
	buf = append(buf, feeTimestampPrefix...)
	buf = append(buf, wallet.Bytes()...)
	buf = append(buf, hash...)
	buf = append(buf, pool.Bytes()...)
	return buf
}

func poolKey(protocol string, poolID [4]byte) []byte {
	normalized := normalizeProtocol(protocol)
	buf := make([]byte, 0, len(poolPrefix)+len(normalized)+1+len(poolID))
	buf = append(buf, poolPrefix...)
	buf = append(buf, normalized...)
	buf = append(buf, '/')
	buf = append(buf, poolID[:]...)
	return buf
}
