package adminvault

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"safeactions/actions"
)

var (
	testWallet    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testPool      = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testRecipient = common.HexToAddress("0xfee0000000000000000000000000000000000fee")
)

func TestVaultRegisterAndResolvePool(t *testing.T) {
	vault := NewVault()
	id, err := vault.RegisterPool("erc4626", testPool)
	require.NoError(t, err)
	require.Equal(t, PoolID(testPool), id)

	resolved, err := vault.ResolvePool("erc4626", id)
	require.NoError(t, err)
	require.Equal(t, testPool, resolved)

	// Registrations are scoped per protocol.
	_, err = vault.ResolvePool("aavev3", id)
	require.ErrorIs(t, err, actions.ErrUnknownPool)

	vault.RemovePool("erc4626", id)
	_, err = vault.ResolvePool("erc4626", id)
	require.ErrorIs(t, err, actions.ErrUnknownPool)
}

func TestVaultRegisterPoolValidation(t *testing.T) {
	vault := NewVault()
	_, err := vault.RegisterPool("  ", testPool)
	require.Error(t, err)
	_, err = vault.RegisterPool("erc4626", common.Address{})
	require.Error(t, err)
}

func TestVaultFeeRecipient(t *testing.T) {
	vault := NewVault()
	_, err := vault.FeeRecipient()
	require.Error(t, err)

	vault.SetFeeRecipient(testRecipient)
	recipient, err := vault.FeeRecipient()
	require.NoError(t, err)
	require.Equal(t, testRecipient, recipient)
}

func TestVaultValidateFeeBasis(t *testing.T) {
	vault := NewVault()
	require.NoError(t, vault.ValidateFeeBasis(0))
	require.NoError(t, vault.ValidateFeeBasis(10_000))
	require.ErrorIs(t, vault.ValidateFeeBasis(10_001), actions.ErrInvalidFeeBasis)

	vault.SetMaxFeeBasis(500)
	require.NoError(t, vault.ValidateFeeBasis(500))
	require.ErrorIs(t, vault.ValidateFeeBasis(501), actions.ErrInvalidFeeBasis)
}

func TestVaultFeeTimestamps(t *testing.T) {
	vault := NewVault()
	ts, err := vault.LastFeeTimestamp(testWallet, "erc4626", testPool)
	require.NoError(t, err)
	require.Zero(t, ts)

	require.Error(t, vault.SetFeeTimestamp(testWallet, "erc4626", testPool, 0))
	require.NoError(t, vault.SetFeeTimestamp(testWallet, "erc4626", testPool, 1_700_000_000))

	ts, err = vault.LastFeeTimestamp(testWallet, "erc4626", testPool)
	require.NoError(t, err)
	require.Equal(t, uint64(1_700_000_000), ts)

	// Distinct protocol and pool keys do not collide.
	ts, err = vault.LastFeeTimestamp(testWallet, "aavev3", testPool)
	require.NoError(t, err)
	require.Zero(t, ts)
	ts, err = vault.LastFeeTimestamp(testWallet, "erc4626", testRecipient)
	require.NoError(t, err)
	require.Zero(t, ts)
}

func TestVaultSnapshotRevert(t *testing.T) {
	vault := NewVault()
	vault.SetFeeRecipient(testRecipient)
	_, err := vault.RegisterPool("erc4626", testPool)
	require.NoError(t, err)

	snap := vault.Snapshot()
	require.NoError(t, vault.SetFeeTimestamp(testWallet, "erc4626", testPool, 42))
	id, err := vault.RegisterPool("erc4626", testRecipient)
	require.NoError(t, err)

	vault.RevertToSnapshot(snap)

	ts, err := vault.LastFeeTimestamp(testWallet, "erc4626", testPool)
	require.NoError(t, err)
	require.Zero(t, ts)
	_, err = vault.ResolvePool("erc4626", id)
	require.ErrorIs(t, err, actions.ErrUnknownPool)

	// The pre-snapshot registration survives.
	resolved, err := vault.ResolvePool("erc4626", PoolID(testPool))
	require.NoError(t, err)
	require.Equal(t, testPool, resolved)
}

func TestVaultRevertDiscardsLaterSnapshots(t *testing.T) {
	vault := NewVault()
	first := vault.Snapshot()
	require.NoError(t, vault.SetFeeTimestamp(testWallet, "erc4626", testPool, 1))
	second := vault.Snapshot()
	require.NoError(t, vault.SetFeeTimestamp(testWallet, "erc4626", testPool, 2))

	vault.RevertToSnapshot(first)
	ts, err := vault.LastFeeTimestamp(testWallet, "erc4626", testPool)
	require.NoError(t, err)
	require.Zero(t, ts)

	// second is gone; reverting to it is a no-op.
	vault.RevertToSnapshot(second)
	ts, err = vault.LastFeeTimestamp(testWallet, "erc4626", testPool)
	require.NoError(t, err)
	require.Zero(t, ts)
}

func TestPoolIDDeterministic(t *testing.T) {
	require.Equal(t, PoolID(testPool), PoolID(testPool))
	require.NotEqual(t, PoolID(testPool), PoolID(testRecipient))
}
