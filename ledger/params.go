package ledger

// RiskParameters groups the pool-creation safety limits governing lending
// activity. They are treated as immutable configuration once the engine is
// constructed.
type RiskParameters struct {
	// MinCollateralRatioBps is the lowest health factor (collateral value
	// over debt value, in basis points) a borrow may leave behind.
	MinCollateralRatioBps uint64
	// LiquidationThresholdBps is the health factor below which positions
	// become eligible for liquidation, expressed in basis points.
	LiquidationThresholdBps uint64
	// LiquidationBonusBps is the collateral premium awarded to liquidators,
	// expressed in basis points.
	LiquidationBonusBps uint64
	// ReserveFactorBps is the share of repaid interest retained by the
	// protocol rather than passed to lenders.
	ReserveFactorBps uint64
}

// DefaultRiskParameters mirrors the common production configuration: 150%
// minimum collateralization, 75% liquidation threshold, 5% liquidation bonus
// and a 10% reserve factor.
var DefaultRiskParameters = RiskParameters{
	MinCollateralRatioBps:   15_000,
	LiquidationThresholdBps: 7_500,
	LiquidationBonusBps:     500,
	ReserveFactorBps:        1_000,
}
