package actions

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/core/events"
)

var (
	testWallet = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testPool   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testPoolID = [4]byte{0xde, 0xad, 0xbe, 0xef}
)

func testConfig(vault *mockVault, emitter events.Emitter, at int64) Config {
	return Config{
		Protocol: "erc4626",
		Wallet:   testWallet,
		Vault:    vault,
		Emitter:  emitter,
		Now:      fixedClock(at),
	}
}

var errMockInsufficient = errors.New("mock token: insufficient balance")

type mockToken struct {
	balances map[common.Address]*big.Int
}

func newMockToken() *mockToken {
	return &mockToken{balances: make(map[common.Address]*big.Int)}
}

func (t *mockToken) mint(addr common.Address, amount int64) {
	t.balances[addr] = big.NewInt(amount)
}

func (t *mockToken) BalanceOf(owner common.Address) (*big.Int, error) {
	if bal, ok := t.balances[owner]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

func (t *mockToken) Transfer(from, to common.Address, amount *big.Int) error {
	bal, _ := t.BalanceOf(from)
	if bal.Cmp(amount) < 0 {
		return errMockInsufficient
	}
	t.balances[from] = bal.Sub(bal, amount)
	dest, _ := t.BalanceOf(to)
	t.balances[to] = dest.Add(dest, amount)
	return nil
}

type mockVault struct {
	pools      map[[4]byte]common.Address
	recipient  common.Address
	timestamps map[string]uint64
	snapshots  []map[string]uint64
}

func newMockVault() *mockVault {
	return &mockVault{
		pools:      make(map[[4]byte]common.Address),
		recipient:  common.HexToAddress("0xfee0000000000000000000000000000000000fee"),
		timestamps: make(map[string]uint64),
	}
}

func (v *mockVault) addPool(id [4]byte, pool common.Address) {
	v.pools[id] = pool
}

func (v *mockVault) tsKey(wallet common.Address, protocol string, pool common.Address) string {
	return wallet.Hex() + "/" + protocol + "/" + pool.Hex()
}

func (v *mockVault) ResolvePool(_ string, poolID [4]byte) (common.Address, error) {
	if pool, ok := v.pools[poolID]; ok {
		return pool, nil
	}
	return common.Address{}, ErrUnknownPool
}

func (v *mockVault) FeeRecipient() (common.Address, error) {
	return v.recipient, nil
}

func (v *mockVault) ValidateFeeBasis(bps uint16) error {
	if bps > 10_000 {
		return ErrInvalidFeeBasis
	}
	return nil
}

func (v *mockVault) LastFeeTimestamp(wallet common.Address, protocol string, pool common.Address) (uint64, error) {
	return v.timestamps[v.tsKey(wallet, protocol, pool)], nil
}

func (v *mockVault) SetFeeTimestamp(wallet common.Address, protocol string, pool common.Address, timestamp uint64) error {
	v.timestamps[v.tsKey(wallet, protocol, pool)] = timestamp
	return nil
}

func (v *mockVault) Snapshot() int {
	snap := make(map[string]uint64, len(v.timestamps))
	for k, ts := range v.timestamps {
		snap[k] = ts
	}
	v.snapshots = append(v.snapshots, snap)
	return len(v.snapshots) - 1
}

func (v *mockVault) RevertToSnapshot(id int) {
	if id < 0 || id >= len(v.snapshots) {
		return
	}
	v.timestamps = v.snapshots[id]
	v.snapshots = v.snapshots[:id]
}

// mockProtocol implements every protocol trait over two in-memory tokens.
// Shares convert 1:1 with underlying unless sharesOut overrides the minting.
type mockProtocol struct {
	poolAddr   common.Address
	share      *mockToken
	underlying *mockToken
	approvals  map[common.Address]*big.Int
	sharesOut  func(amount *big.Int) *big.Int
	reportNil  bool
	requests   []string
	requestSeq int
}

func newMockProtocol(pool common.Address) *mockProtocol {
	return &mockProtocol{
		poolAddr:   pool,
		share:      newMockToken(),
		underlying: newMockToken(),
		approvals:  make(map[common.Address]*big.Int),
	}
}

func (p *mockProtocol) PositionBalance(wallet common.Address) (*big.Int, error) {
	return p.share.BalanceOf(wallet)
}

func (p *mockProtocol) FeeToken() Token { return p.share }

func (p *mockProtocol) UnderlyingBalance(wallet common.Address) (*big.Int, error) {
	return p.underlying.BalanceOf(wallet)
}

func (p *mockProtocol) ApproveSpend(wallet common.Address, amount *big.Int) error {
	p.approvals[wallet] = new(big.Int).Set(amount)
	return nil
}

func (p *mockProtocol) Deposit(wallet common.Address, amount *big.Int) (*big.Int, error) {
	if err := p.underlying.Transfer(wallet, p.poolAddr, amount); err != nil {
		return nil, err
	}
	shares := new(big.Int).Set(amount)
	if p.sharesOut != nil {
		shares = p.sharesOut(amount)
	}
	bal, _ := p.share.BalanceOf(wallet)
	p.share.balances[wallet] = bal.Add(bal, shares)
	if p.reportNil {
		return nil, nil
	}
	return new(big.Int).Set(shares), nil
}

func (p *mockProtocol) MaxWithdraw(wallet common.Address) (*big.Int, error) {
	return p.share.BalanceOf(wallet)
}

func (p *mockProtocol) Withdraw(wallet common.Address, amount *big.Int) (*big.Int, error) {
	if err := p.share.Transfer(wallet, p.poolAddr, amount); err != nil {
		return nil, err
	}
	bal, _ := p.underlying.BalanceOf(wallet)
	p.underlying.balances[wallet] = bal.Add(bal, amount)
	return new(big.Int).Set(amount), nil
}

func (p *mockProtocol) Redeem(wallet common.Address, shares *big.Int) (*big.Int, error) {
	return p.Withdraw(wallet, shares)
}

func (p *mockProtocol) RequestRedeem(wallet common.Address, shares *big.Int) (string, error) {
	bal, _ := p.share.BalanceOf(wallet)
	if bal.Cmp(shares) < 0 {
		return "", errMockInsufficient
	}
	p.requestSeq++
	id := fmt.Sprintf("request-%d", p.requestSeq)
	p.requests = append(p.requests, id)
	return id, nil
}

func fixedClock(at int64) func() int64 {
	return func() int64 { return at }
}
