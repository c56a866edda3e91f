package ledger

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config captures the setup-time configuration for the lending ledger. The
// values are treated as immutable once the engine is constructed; changing
// them mid-operation is out of scope for this core.
type Config struct {
	MinCollateralRatioBps   uint64        `toml:"MinCollateralRatioBps"`
	LiquidationThresholdBps uint64        `toml:"LiquidationThresholdBps"`
	LiquidationBonusBps     uint64        `toml:"LiquidationBonusBps"`
	ReserveFactorBps        uint64        `toml:"ReserveFactorBps"`
	OracleMaxAgeSeconds     int64         `toml:"OracleMaxAgeSeconds"`
	AdminTokens             []string      `toml:"AdminTokens"`
	Interest                InterestModel `toml:"interest"`
	Assets                  []AssetConfig `toml:"assets"`
}

// AssetConfig describes one asset to register at pool setup.
type AssetConfig struct {
	Symbol             string `toml:"Symbol"`
	Decimals           uint8  `toml:"Decimals"`
	Listed             bool   `toml:"Listed"`
	CollateralApproved bool   `toml:"CollateralApproved"`
}

// LoadConfig reads and validates a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MinCollateralRatioBps == 0 {
		c.MinCollateralRatioBps = DefaultRiskParameters.MinCollateralRatioBps
	}
	if c.LiquidationThresholdBps == 0 {
		c.LiquidationThresholdBps = DefaultRiskParameters.LiquidationThresholdBps
	}
	if c.LiquidationBonusBps == 0 {
		c.LiquidationBonusBps = DefaultRiskParameters.LiquidationBonusBps
	}
	if c.ReserveFactorBps == 0 {
		c.ReserveFactorBps = DefaultRiskParameters.ReserveFactorBps
	}
	if c.Interest == (InterestModel{}) {
		c.Interest = *DefaultInterestModel
	}
	if c.OracleMaxAgeSeconds <= 0 {
		c.OracleMaxAgeSeconds = 120
	}
}

// Validate rejects configurations that would let the pool misbehave.
// Registering a pool with broken risk limits is a setup fault, not a per-call
// error.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("lending ledger: config required")
	}
	if c.ReserveFactorBps > 10_000 {
		return fmt.Errorf("lending ledger: reserve factor %d exceeds 100%%", c.ReserveFactorBps)
	}
	if c.LiquidationBonusBps > 10_000 {
		return fmt.Errorf("lending ledger: liquidation bonus %d exceeds 100%%", c.LiquidationBonusBps)
	}
	if c.Interest.KinkBps > 10_000 {
		return fmt.Errorf("lending ledger: kink utilisation %d exceeds 100%%", c.Interest.KinkBps)
	}
	seen := make(map[string]struct{}, len(c.Assets))
	for _, asset := range c.Assets {
		symbol := strings.ToUpper(strings.TrimSpace(asset.Symbol))
		if symbol == "" {
			return fmt.Errorf("lending ledger: asset symbol required")
		}
		if _, dup := seen[symbol]; dup {
			return fmt.Errorf("lending ledger: duplicate asset %s", symbol)
		}
		seen[symbol] = struct{}{}
	}
	return nil
}

// RiskParameters projects the configured risk limits into the engine's
// parameter struct.
func (c *Config) RiskParameters() RiskParameters {
	return RiskParameters{
		MinCollateralRatioBps:   c.MinCollateralRatioBps,
		LiquidationThresholdBps: c.LiquidationThresholdBps,
		LiquidationBonusBps:     c.LiquidationBonusBps,
		ReserveFactorBps:        c.ReserveFactorBps,
	}
}
