package ledger

import "math/big"

// InterestModel encapsulates the kinked curve mapping pool utilisation to
// borrow and supply rates. All parameters are annualized basis points except
// KinkBps, which is the utilisation ratio (fraction of 10000) where the
// borrow rate slope steepens to discourage draining liquidity.
type InterestModel struct {
	// BaseRateBps is the minimum borrow rate applied at zero utilisation.
	BaseRateBps uint64
	// Slope1Bps is the borrow rate increase per unit of utilisation up to
	// the kink point.
	Slope1Bps uint64
	// Slope2Bps governs the additional rate increase applied beyond the
	// kink point.
	Slope2Bps uint64
	// KinkBps is the utilisation ratio where the slope changes.
	KinkBps uint64
}

// Clone returns a copy of the interest model.
func (m *InterestModel) Clone() *InterestModel {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}

// DefaultInterestModel provides a reasonable starting configuration featuring
// a kinked curve with a modest base rate: 2% base, 15% slope to an 80% kink,
// then a 60% slope.
var DefaultInterestModel = &InterestModel{
	BaseRateBps: 200,
	Slope1Bps:   1_500,
	Slope2Bps:   6_000,
	KinkBps:     8_000,
}

var ratOne = big.NewRat(1, 1)

// Rates derives the annualized borrow and supply rates for the supplied
// utilisation fraction. The function is pure and deterministic; utilisation
// must lie in [0,1] or ErrInvalidUtilization is returned. The supply rate is
// borrow rate × utilisation × (1 − reserveFactor), floored to basis points.
func (m *InterestModel) Rates(utilization *big.Rat, reserveFactorBps uint64) (uint64, uint64, error) {
	if utilization == nil {
		utilization = new(big.Rat)
	}
	if utilization.Sign() < 0 || utilization.Cmp(ratOne) > 0 {
		return 0, 0, ErrInvalidUtilization
	}
	if m == nil {
		return 0, 0, nil
	}

	borrow := new(big.Rat).SetUint64(m.BaseRateBps)
	kink := new(big.Rat).SetFrac(new(big.Int).SetUint64(m.KinkBps), basisPoints)
	slope1 := new(big.Rat).SetUint64(m.Slope1Bps)
	if m.KinkBps == 0 || utilization.Cmp(kink) <= 0 {
		// Linear region before the kink.
		borrow.Add(borrow, new(big.Rat).Mul(slope1, utilization))
	} else {
		borrow.Add(borrow, new(big.Rat).Mul(slope1, kink))
		excess := new(big.Rat).Sub(utilization, kink)
		slope2 := new(big.Rat).SetUint64(m.Slope2Bps)
		borrow.Add(borrow, new(big.Rat).Mul(slope2, excess))
	}
	borrowBps := ratFloor(borrow).Uint64()

	if reserveFactorBps > 10_000 {
		reserveFactorBps = 10_000
	}
	oneMinusReserve := new(big.Rat).SetFrac(
		new(big.Int).SetUint64(10_000-reserveFactorBps), basisPoints)
	supply := new(big.Rat).SetUint64(borrowBps)
	supply.Mul(supply, utilization)
	supply.Mul(supply, oneMinusReserve)
	supplyBps := ratFloor(supply).Uint64()

	return borrowBps, supplyBps, nil
}
