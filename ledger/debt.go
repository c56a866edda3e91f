package ledger

import "math/big"

// DebtBook is the per-asset debt accounting backend: it compounds positions
// over elapsed time at each position's rate snapshot and applies interest
// before principal on repayment. A book carries no state of its own; the
// engine registers one per asset so alternative accrual backends can be
// swapped in administratively.
type DebtBook struct {
	secondsPerYear int64
}

// NewDebtBook constructs a debt book using the standard 365-day year.
func NewDebtBook() *DebtBook {
	return &DebtBook{secondsPerYear: secondsPerYear}
}

// Accrue compounds interest on the position for the time elapsed since its
// last accrual and advances the accrual timestamp. Calling twice with the
// same timestamp accrues zero additional interest; a timestamp in the past is
// ignored. The sub-unit fraction of each interval is carried on the position
// at wad precision, so accruing every block converges to the same totals as
// one long accrual. The whole-unit delta is returned.
func (b *DebtBook) Accrue(pos *DebtPosition, now int64) *big.Int {
	if b == nil || pos == nil {
		return big.NewInt(0)
	}
	pos.ensureDefaults()
	elapsed := now - pos.LastAccrual
	if elapsed <= 0 {
		return big.NewInt(0)
	}
	carried := new(big.Int).Add(pos.InterestRemainderWad,
		interestWad(pos.TotalDebt(), pos.AnnualRateBps, elapsed))
	delta := new(big.Int).Quo(carried, wad)
	pos.InterestRemainderWad = new(big.Int).Rem(carried, wad)
	if delta.Sign() > 0 {
		pos.AccruedInterest = new(big.Int).Add(pos.AccruedInterest, delta)
	}
	pos.LastAccrual = now
	return delta
}

// Increase accrues the position to now and then adds the borrowed amount to
// principal.
func (b *DebtBook) Increase(pos *DebtPosition, amount *big.Int, now int64) error {
	if pos == nil {
		return ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	b.Accrue(pos, now)
	pos.Principal = new(big.Int).Add(pos.Principal, amount)
	return nil
}

// Decrease accrues the position to now and then repays the supplied amount,
// interest first. It fails with ErrRepayExceedsDebt when the amount exceeds
// the total outstanding debt. The interest and principal portions actually
// applied are returned.
func (b *DebtBook) Decrease(pos *DebtPosition, amount *big.Int, now int64) (interestPaid, principalPaid *big.Int, err error) {
	if pos == nil {
		return nil, nil, ErrNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, ErrZeroAmount
	}
	b.Accrue(pos, now)
	if amount.Cmp(pos.TotalDebt()) > 0 {
		return nil, nil, ErrRepayExceedsDebt
	}

	remaining := new(big.Int).Set(amount)
	interestPaid = big.NewInt(0)
	if pos.AccruedInterest.Sign() > 0 {
		if remaining.Cmp(pos.AccruedInterest) >= 0 {
			interestPaid = new(big.Int).Set(pos.AccruedInterest)
		} else {
			interestPaid = new(big.Int).Set(remaining)
		}
		pos.AccruedInterest = new(big.Int).Sub(pos.AccruedInterest, interestPaid)
		remaining.Sub(remaining, interestPaid)
	}
	principalPaid = remaining
	if principalPaid.Sign() > 0 {
		pos.Principal = new(big.Int).Sub(pos.Principal, principalPaid)
	}
	// Full repayment zeroes the position entirely; a sub-unit fraction is
	// never collectable on its own.
	if pos.TotalDebt().Sign() == 0 {
		pos.InterestRemainderWad = big.NewInt(0)
	}
	return interestPaid, principalPaid, nil
}
