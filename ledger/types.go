package ledger

import "math/big"

// Asset describes a token tracked by the ledger. Listing and collateral
// approval are independent flags: an asset may be borrowable without being
// usable as collateral and vice versa.
type Asset struct {
	// Symbol is the opaque asset identifier, stored upper-cased.
	Symbol string
	// Decimals is the fixed-point scale of amounts in this asset.
	Decimals uint8
	// Listed marks the asset as tradeable in the pool.
	Listed bool
	// CollateralApproved marks the asset as usable to secure borrows.
	CollateralApproved bool
}

// Clone returns a copy of the asset record.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// PoolState captures the global accounting state for one asset pool. Amounts
// are fixed-point integers in the asset's native scale.
type PoolState struct {
	// Asset is the pool's asset symbol.
	Asset string
	// TotalDeposits is the aggregate principal supplied by lenders.
	TotalDeposits *big.Int
	// TotalBorrows tracks the outstanding borrowed principal.
	TotalBorrows *big.Int
	// ReserveBalance accumulates the protocol's share of repaid interest.
	ReserveBalance *big.Int
	// LastBorrowRateBps is the annualized borrow rate sampled at the last
	// rate update.
	LastBorrowRateBps uint64
	// LastSupplyRateBps is the annualized supply rate sampled at the last
	// rate update.
	LastSupplyRateBps uint64
	// LastRateUpdate records the unix timestamp of the last rate resample.
	LastRateUpdate int64
}

// Clone returns a deep copy of the pool state.
func (p *PoolState) Clone() *PoolState {
	if p == nil {
		return nil
	}
	clone := &PoolState{
		Asset:             p.Asset,
		LastBorrowRateBps: p.LastBorrowRateBps,
		LastSupplyRateBps: p.LastSupplyRateBps,
		LastRateUpdate:    p.LastRateUpdate,
	}
	if p.TotalDeposits != nil {
		clone.TotalDeposits = new(big.Int).Set(p.TotalDeposits)
	}
	if p.TotalBorrows != nil {
		clone.TotalBorrows = new(big.Int).Set(p.TotalBorrows)
	}
	if p.ReserveBalance != nil {
		clone.ReserveBalance = new(big.Int).Set(p.ReserveBalance)
	}
	return clone
}

func (p *PoolState) ensureDefaults() {
	if p.TotalDeposits == nil {
		p.TotalDeposits = big.NewInt(0)
	}
	if p.TotalBorrows == nil {
		p.TotalBorrows = big.NewInt(0)
	}
	if p.ReserveBalance == nil {
		p.ReserveBalance = big.NewInt(0)
	}
}

// UserDeposit records the principal a lender has supplied to a pool.
type UserDeposit struct {
	User      string
	Asset     string
	Principal *big.Int
}

// Clone returns a deep copy of the deposit record.
func (d *UserDeposit) Clone() *UserDeposit {
	if d == nil {
		return nil
	}
	clone := &UserDeposit{User: d.User, Asset: d.Asset}
	if d.Principal != nil {
		clone.Principal = new(big.Int).Set(d.Principal)
	}
	return clone
}

// DebtPosition tracks a borrower's accruing per-asset debt. AnnualRateBps is
// the rate snapshot applied over the interval ending at the next accrual; it
// is refreshed to the pool's current borrow rate on every accrual.
type DebtPosition struct {
	User            string
	Asset           string
	Principal       *big.Int
	AccruedInterest *big.Int
	// InterestRemainderWad holds the sub-unit interest fraction (wad scale,
	// always < 1e18) left over after flooring AccruedInterest to whole
	// units, so accruing at a short cadence loses nothing to rounding.
	InterestRemainderWad *big.Int
	LastAccrual          int64
	AnnualRateBps        uint64
}

// Clone returns a deep copy of the debt position.
func (p *DebtPosition) Clone() *DebtPosition {
	if p == nil {
		return nil
	}
	clone := &DebtPosition{
		User:          p.User,
		Asset:         p.Asset,
		LastAccrual:   p.LastAccrual,
		AnnualRateBps: p.AnnualRateBps,
	}
	if p.Principal != nil {
		clone.Principal = new(big.Int).Set(p.Principal)
	}
	if p.AccruedInterest != nil {
		clone.AccruedInterest = new(big.Int).Set(p.AccruedInterest)
	}
	if p.InterestRemainderWad != nil {
		clone.InterestRemainderWad = new(big.Int).Set(p.InterestRemainderWad)
	}
	return clone
}

func (p *DebtPosition) ensureDefaults() {
	if p.Principal == nil {
		p.Principal = big.NewInt(0)
	}
	if p.AccruedInterest == nil {
		p.AccruedInterest = big.NewInt(0)
	}
	if p.InterestRemainderWad == nil {
		p.InterestRemainderWad = big.NewInt(0)
	}
}

// TotalDebt returns principal plus accrued interest. The value is only
// current after an accrual at the observation timestamp.
func (p *DebtPosition) TotalDebt() *big.Int {
	if p == nil {
		return big.NewInt(0)
	}
	total := big.NewInt(0)
	if p.Principal != nil {
		total.Add(total, p.Principal)
	}
	if p.AccruedInterest != nil {
		total.Add(total, p.AccruedInterest)
	}
	return total
}

// CollateralPosition records collateral pledged by a user in one asset.
type CollateralPosition struct {
	User   string
	Asset  string
	Amount *big.Int
}

// Clone returns a deep copy of the collateral position.
func (c *CollateralPosition) Clone() *CollateralPosition {
	if c == nil {
		return nil
	}
	clone := &CollateralPosition{User: c.User, Asset: c.Asset}
	if c.Amount != nil {
		clone.Amount = new(big.Int).Set(c.Amount)
	}
	return clone
}
