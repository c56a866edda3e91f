package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
MinCollateralRatioBps = 16000
ReserveFactorBps = 500
AdminTokens = ["ops-console"]

[interest]
BaseRateBps = 100
Slope1Bps = 1200
Slope2Bps = 5000
KinkBps = 7500

[[assets]]
Symbol = "usdc"
Decimals = 6
Listed = true

[[assets]]
Symbol = "ETH"
Decimals = 18
Listed = true
CollateralApproved = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, uint64(16000), cfg.MinCollateralRatioBps)
	require.Equal(t, uint64(500), cfg.ReserveFactorBps)
	require.Equal(t, []string{"ops-console"}, cfg.AdminTokens)
	require.Equal(t, uint64(7500), cfg.Interest.KinkBps)
	require.Len(t, cfg.Assets, 2)
	require.True(t, cfg.Assets[1].CollateralApproved)

	params := cfg.RiskParameters()
	require.Equal(t, uint64(16000), params.MinCollateralRatioBps)
	// Unset limits fall back to the defaults.
	require.Equal(t, DefaultRiskParameters.LiquidationThresholdBps, params.LiquidationThresholdBps)
	require.Equal(t, DefaultRiskParameters.LiquidationBonusBps, params.LiquidationBonusBps)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, DefaultRiskParameters, cfg.RiskParameters())
	require.Equal(t, *DefaultInterestModel, cfg.Interest)
	require.Equal(t, int64(120), cfg.OracleMaxAgeSeconds)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"reserve factor over 100%", "ReserveFactorBps = 10001\n"},
		{"bonus over 100%", "LiquidationBonusBps = 12000\n"},
		{"kink over 100%", "[interest]\nBaseRateBps = 100\nKinkBps = 10500\n"},
		{"blank asset symbol", "[[assets]]\nSymbol = \"  \"\n"},
		{"duplicate asset", "[[assets]]\nSymbol = \"usdc\"\n[[assets]]\nSymbol = \"USDC\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			require.Error(t, err)
		})
	}
}
