package erc4626

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"safeactions/actions"
	"safeactions/adminvault"
	"safeactions/core/events"
)

var (
	testWallet   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testPoolAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")
	feeRecipient = common.HexToAddress("0xfee0000000000000000000000000000000000fee")
)

const yearSeconds = 31_536_000

type memToken struct {
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

func newMemToken() *memToken {
	return &memToken{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

func (t *memToken) mint(addr common.Address, amount int64) {
	t.balances[addr] = big.NewInt(amount)
}

func (t *memToken) BalanceOf(owner common.Address) (*big.Int, error) {
	if bal, ok := t.balances[owner]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

func (t *memToken) Transfer(from, to common.Address, amount *big.Int) error {
	bal, _ := t.BalanceOf(from)
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("memtoken: balance %s below transfer %s", bal, amount)
	}
	t.balances[from] = bal.Sub(bal, amount)
	dest, _ := t.BalanceOf(to)
	t.balances[to] = dest.Add(dest, amount)
	return nil
}

func (t *memToken) Approve(owner, spender common.Address, amount *big.Int) error {
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*big.Int)
	}
	t.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

func (t *memToken) spendAllowance(owner, spender common.Address, amount *big.Int) error {
	allowed := t.allowances[owner][spender]
	if allowed == nil || allowed.Cmp(amount) < 0 {
		return errors.New("memtoken: allowance exceeded")
	}
	allowed.Sub(allowed, amount)
	return t.Transfer(owner, spender, amount)
}

// memVault is a one-to-one ERC4626 vault over a share and an asset token.
type memVault struct {
	addr  common.Address
	share *memToken
	asset *memToken
}

func (v *memVault) BalanceOf(owner common.Address) (*big.Int, error) {
	return v.share.BalanceOf(owner)
}

func (v *memVault) MaxWithdraw(owner common.Address) (*big.Int, error) {
	return v.share.BalanceOf(owner)
}

func (v *memVault) Deposit(assets *big.Int, receiver common.Address) (*big.Int, error) {
	if err := v.asset.spendAllowance(receiver, v.addr, assets); err != nil {
		return nil, err
	}
	bal, _ := v.share.BalanceOf(receiver)
	v.share.balances[receiver] = bal.Add(bal, assets)
	return new(big.Int).Set(assets), nil
}

func (v *memVault) Withdraw(assets *big.Int, receiver, owner common.Address) (*big.Int, error) {
	if err := v.share.Transfer(owner, v.addr, assets); err != nil {
		return nil, err
	}
	bal, _ := v.asset.BalanceOf(receiver)
	v.asset.balances[receiver] = bal.Add(bal, assets)
	return new(big.Int).Set(assets), nil
}

func (v *memVault) Redeem(shares *big.Int, receiver, owner common.Address) (*big.Int, error) {
	return v.Withdraw(shares, receiver, owner)
}

type fixture struct {
	vault    *memVault
	share    *memToken
	asset    *memToken
	registry *adminvault.Vault
	recorder *events.Recorder
	cfg      actions.Config
	poolID   [4]byte
}

func newFixture(t *testing.T, at int64) *fixture {
	t.Helper()
	share := newMemToken()
	asset := newMemToken()
	vault := &memVault{addr: testPoolAddr, share: share, asset: asset}

	registry := adminvault.NewVault()
	registry.SetFeeRecipient(feeRecipient)
	poolID, err := registry.RegisterPool("erc4626", testPoolAddr)
	if err != nil {
		t.Fatalf("register pool: %v", err)
	}

	recorder := &events.Recorder{}
	return &fixture{
		vault:    vault,
		share:    share,
		asset:    asset,
		registry: registry,
		recorder: recorder,
		poolID:   poolID,
		cfg: actions.Config{
			Protocol: "erc4626",
			Wallet:   testWallet,
			Vault:    registry,
			Emitter:  recorder,
			Now:      func() int64 { return at },
		},
	}
}

func (f *fixture) binder(t *testing.T) Binder {
	t.Helper()
	adapter := NewAdapter(testPoolAddr, f.vault, f.share, f.asset)
	return func(pool common.Address) (*Adapter, error) {
		if pool != testPoolAddr {
			return nil, fmt.Errorf("unexpected pool %s", pool.Hex())
		}
		return adapter, nil
	}
}

func TestAdapterSupplyLifecycle(t *testing.T) {
	start := int64(1_700_000_000)
	f := newFixture(t, start)
	f.asset.mint(testWallet, 1_000)

	supply, err := NewSupplyAction(f.cfg, f.binder(t))
	if err != nil {
		t.Fatalf("new supply action: %v", err)
	}
	data, err := actions.SupplyParams{
		PoolID:            f.poolID,
		FeeBasis:          100,
		Amount:            big.NewInt(1_000),
		MinSharesReceived: big.NewInt(1_000),
	}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := supply.ExecuteAction(data, 1); err != nil {
		t.Fatalf("supply: %v", err)
	}

	shares, _ := f.share.BalanceOf(testWallet)
	if shares.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("shares = %s, want 1000", shares)
	}
	assets, _ := f.asset.BalanceOf(testWallet)
	if assets.Sign() != 0 {
		t.Fatalf("assets left after deposit: %s", assets)
	}
	evt := f.recorder.Last()
	if evt == nil || evt.Type != events.TypeBalanceUpdated {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.Attributes["balanceAfter"] != "1000" || evt.Attributes["fee"] != "0" {
		t.Fatalf("unexpected attributes: %v", evt.Attributes)
	}
}

func TestAdapterWithdrawAfterYearPaysFee(t *testing.T) {
	start := int64(1_700_000_000)
	f := newFixture(t, start+yearSeconds)
	f.share.mint(testWallet, 1_000)
	if err := f.registry.SetFeeTimestamp(testWallet, "erc4626", testPoolAddr, uint64(start)); err != nil {
		t.Fatalf("seed fee clock: %v", err)
	}

	withdraw, err := NewWithdrawAction(f.cfg, f.binder(t))
	if err != nil {
		t.Fatalf("new withdraw action: %v", err)
	}
	data, err := actions.WithdrawParams{
		PoolID:          f.poolID,
		FeeBasis:        100,
		Amount:          actions.MaxAmount(),
		MaxSharesBurned: actions.MaxAmount(),
	}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := withdraw.ExecuteAction(data, 1); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	// 10 shares of fee first, then the remaining 990 redeem to assets.
	feeShares, _ := f.share.BalanceOf(feeRecipient)
	if feeShares.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("fee shares = %s, want 10", feeShares)
	}
	assets, _ := f.asset.BalanceOf(testWallet)
	if assets.Cmp(big.NewInt(990)) != 0 {
		t.Fatalf("assets = %s, want 990", assets)
	}
	evt := f.recorder.Last()
	if evt.Attributes["balanceBefore"] != "1000" || evt.Attributes["balanceAfter"] != "0" || evt.Attributes["fee"] != "10" {
		t.Fatalf("unexpected attributes: %v", evt.Attributes)
	}
}

func TestAdapterRedeemShares(t *testing.T) {
	start := int64(1_700_000_000)
	f := newFixture(t, start)
	f.share.mint(testWallet, 400)
	if err := f.registry.SetFeeTimestamp(testWallet, "erc4626", testPoolAddr, uint64(start)); err != nil {
		t.Fatalf("seed fee clock: %v", err)
	}

	redeem, err := NewRedeemAction(f.cfg, f.binder(t))
	if err != nil {
		t.Fatalf("new redeem action: %v", err)
	}
	data, err := actions.ShareWithdrawParams{
		PoolID:                f.poolID,
		FeeBasis:              100,
		Shares:                big.NewInt(150),
		MinUnderlyingReceived: big.NewInt(150),
	}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := redeem.ExecuteAction(data, 1); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	assets, _ := f.asset.BalanceOf(testWallet)
	if assets.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("assets = %s, want 150", assets)
	}
	shares, _ := f.share.BalanceOf(testWallet)
	if shares.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("shares = %s, want 250", shares)
	}
}

func TestAdapterExitWithoutStartedClock(t *testing.T) {
	f := newFixture(t, 1_700_000_000)
	f.share.mint(testWallet, 600)

	exit, err := NewExitAction(f.cfg, f.binder(t))
	if err != nil {
		t.Fatalf("new exit action: %v", err)
	}
	data, err := actions.ExitParams{PoolID: f.poolID, FeeBasis: 100}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := exit.ExecuteAction(data, 1); err != nil {
		t.Fatalf("exit: %v", err)
	}
	assets, _ := f.asset.BalanceOf(testWallet)
	if assets.Cmp(big.NewInt(600)) != 0 {
		t.Fatalf("assets = %s, want 600", assets)
	}
}

func TestAdapterDepositWithoutAllowanceFails(t *testing.T) {
	f := newFixture(t, 1_700_000_000)
	f.asset.mint(testWallet, 100)

	adapter := NewAdapter(testPoolAddr, f.vault, f.share, f.asset)
	_, err := adapter.Deposit(testWallet, big.NewInt(100))
	if err == nil {
		t.Fatalf("expected allowance failure")
	}
}
