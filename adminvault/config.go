package adminvault

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config models the registry file operators ship with a deployment.
type Config struct {
	FeeRecipient string       `toml:"FeeRecipient"`
	MaxFeeBasis  uint16       `toml:"MaxFeeBasis"`
	Pools        []PoolConfig `toml:"Pool"`
}

// PoolConfig declares one registered pool.
type PoolConfig struct {
	Protocol string `toml:"Protocol"`
	Address  string `toml:"Address"`
}

// LoadConfig reads a registry file from disk.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("adminvault: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Build validates the config and materialises an in-memory vault from it.
func (c *Config) Build() (*Vault, error) {
	if c == nil {
		return nil, fmt.Errorf("adminvault: nil config")
	}
	if !common.IsHexAddress(c.FeeRecipient) {
		return nil, fmt.Errorf("adminvault: invalid fee recipient %q", c.FeeRecipient)
	}
	vault := NewVault()
	vault.SetFeeRecipient(common.HexToAddress(c.FeeRecipient))
	if c.MaxFeeBasis > 0 {
		vault.SetMaxFeeBasis(c.MaxFeeBasis)
	}
	for _, pool := range c.Pools {
		if !common.IsHexAddress(pool.Address) {
			return nil, fmt.Errorf("adminvault: invalid pool address %q for %s", pool.Address, pool.Protocol)
		}
		if _, err := vault.RegisterPool(pool.Protocol, common.HexToAddress(pool.Address)); err != nil {
			return nil, err
		}
	}
	return vault, nil
}
