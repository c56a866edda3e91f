package ledger

import (
	"math"
	"math/big"

	"lendledger/events"
)

// HealthFactorInfinite is the sentinel health factor reported for positions
// with zero debt.
var HealthFactorInfinite = new(big.Int).SetUint64(math.MaxUint64)

func (e *Engine) healthFactor(collateralAmount *big.Int, collateralAsset *Asset, totalDebt *big.Int, debtAsset *Asset) (*big.Int, error) {
	if totalDebt == nil || totalDebt.Sign() == 0 {
		return new(big.Int).Set(HealthFactorInfinite), nil
	}
	value, err := e.vault.Value(collateralAmount, collateralAsset, debtAsset)
	if err != nil {
		return nil, err
	}
	health := new(big.Int).Mul(value, basisPoints)
	return health.Quo(health, totalDebt), nil
}

// HealthFactor evaluates the collateralization ratio, in basis points, of the
// borrower's collateral in one asset against their debt in another.
// HealthFactorInfinite is returned when no debt is outstanding. This is a
// read-only view recomputed from current oracle prices.
func (e *Engine) HealthFactor(user, collateralAsset, debtAsset string) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	collateralRecord, err := e.state.GetAsset(normaliseAsset(collateralAsset))
	if err != nil {
		return nil, err
	}
	debtRecord, err := e.state.GetAsset(normaliseAsset(debtAsset))
	if err != nil {
		return nil, err
	}
	if collateralRecord == nil || debtRecord == nil {
		return nil, ErrUnknownAsset
	}
	collateral, err := e.ensureCollateral(user, collateralAsset)
	if err != nil {
		return nil, err
	}
	debt, err := e.state.GetDebt(user, normaliseAsset(debtAsset))
	if err != nil {
		return nil, err
	}
	totalDebt := big.NewInt(0)
	if debt != nil {
		view := debt.Clone()
		view.ensureDefaults()
		e.debtBook(debtAsset).Accrue(view, e.now())
		totalDebt = view.TotalDebt()
	}
	return e.healthFactor(collateral.Amount, collateralRecord, totalDebt, debtRecord)
}

// LiquidatePosition forcibly closes part of an undercollateralized position:
// the liquidator repays repayAmount of the borrower's debt and receives the
// equivalent collateral value plus the liquidation bonus, capped at the
// borrower's available collateral (the effective bonus shrinks when the cap
// binds). Administrative, per the operations-console trigger path.
func (e *Engine) LiquidatePosition(token, liquidator, borrower, debtAsset, collateralAsset string, repayAmount *big.Int) (repaid, seized *big.Int, err error) {
	if err := e.authorize(token); err != nil {
		return nil, nil, err
	}
	if e.state == nil {
		return nil, nil, ErrNilState
	}
	if repayAmount == nil || repayAmount.Sign() <= 0 {
		return nil, nil, ErrZeroAmount
	}
	debtRecord, err := e.listedAsset(debtAsset)
	if err != nil {
		return nil, nil, err
	}
	collateralRecord, err := e.state.GetAsset(normaliseAsset(collateralAsset))
	if err != nil {
		return nil, nil, err
	}
	if collateralRecord == nil {
		return nil, nil, ErrUnknownAsset
	}
	unlock := e.lockAssets(debtAsset, collateralAsset)
	defer unlock()

	pool, err := e.ensurePool(debtAsset)
	if err != nil {
		return nil, nil, err
	}
	debt, err := e.state.GetDebt(borrower, normaliseAsset(debtAsset))
	if err != nil {
		return nil, nil, err
	}
	if debt == nil {
		return nil, nil, ErrPositionHealthy
	}
	debt.ensureDefaults()

	now := e.now()
	e.accrueDebt(pool, debt, now)
	totalDebt := debt.TotalDebt()

	collateral, err := e.ensureCollateral(borrower, collateralAsset)
	if err != nil {
		return nil, nil, err
	}
	health, err := e.healthFactor(collateral.Amount, collateralRecord, totalDebt, debtRecord)
	if err != nil {
		return nil, nil, err
	}
	if health.Cmp(new(big.Int).SetUint64(e.params.LiquidationThresholdBps)) >= 0 {
		return nil, nil, ErrPositionHealthy
	}
	if repayAmount.Cmp(totalDebt) > 0 {
		return nil, nil, ErrRepayExceedsDebt
	}

	// Collateral owed: repay value converted into the collateral asset,
	// boosted by the liquidation bonus and capped at what the borrower has.
	baseSeize, err := e.vault.Value(repayAmount, debtRecord, collateralRecord)
	if err != nil {
		return nil, nil, err
	}
	seize := new(big.Int).Mul(baseSeize, new(big.Int).SetUint64(10_000+e.params.LiquidationBonusBps))
	seize.Quo(seize, basisPoints)
	if seize.Cmp(collateral.Amount) > 0 {
		seize = new(big.Int).Set(collateral.Amount)
	}

	interestPaid, principalPaid, err := e.debtBook(debtAsset).Decrease(debt, repayAmount, now)
	if err != nil {
		return nil, nil, err
	}
	pool.TotalBorrows = new(big.Int).Sub(pool.TotalBorrows, principalPaid)
	if reserveShare := bpsShare(interestPaid, e.params.ReserveFactorBps); reserveShare.Sign() > 0 {
		pool.ReserveBalance = new(big.Int).Add(pool.ReserveBalance, reserveShare)
	}

	collateral.Amount = new(big.Int).Sub(collateral.Amount, seize)
	holdings, err := e.ensureCollateral(liquidator, collateralAsset)
	if err != nil {
		return nil, nil, err
	}
	holdings.Amount = new(big.Int).Add(holdings.Amount, seize)

	if err := e.state.PutDebt(debt); err != nil {
		return nil, nil, err
	}
	if err := e.state.PutPool(pool); err != nil {
		return nil, nil, err
	}
	if err := e.state.PutCollateral(collateral); err != nil {
		return nil, nil, err
	}
	if err := e.state.PutCollateral(holdings); err != nil {
		return nil, nil, err
	}

	e.emit(events.Liquidated{
		Liquidator:      liquidator,
		Borrower:        borrower,
		DebtAsset:       debtRecord.Symbol,
		CollateralAsset: collateralRecord.Symbol,
		RepaidAmount:    repayAmount,
		SeizedAmount:    seize,
	})
	e.log().Info("liquidation", "liquidator", liquidator, "borrower", borrower,
		"debtAsset", debtRecord.Symbol, "collateralAsset", collateralRecord.Symbol,
		"repaid", repayAmount.String(), "seized", seize.String())
	return new(big.Int).Set(repayAmount), seize, nil
}
