package ledger

import (
	"errors"
	"math/big"
	"testing"
)

func newDebtPosition(principal int64, rateBps uint64, lastAccrual int64) *DebtPosition {
	return &DebtPosition{
		User:            "alice",
		Asset:           "X",
		Principal:       big.NewInt(principal),
		AccruedInterest: big.NewInt(0),
		LastAccrual:     lastAccrual,
		AnnualRateBps:   rateBps,
	}
}

func TestAccrueSimpleInterest(t *testing.T) {
	book := NewDebtBook()
	pos := newDebtPosition(1000, 500, 0)

	delta := book.Accrue(pos, secondsPerYear)
	if delta.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected 50 interest over a year at 5%%, got %s", delta)
	}
	if pos.TotalDebt().Cmp(big.NewInt(1050)) != 0 {
		t.Fatalf("expected total debt 1050, got %s", pos.TotalDebt())
	}
	if pos.LastAccrual != secondsPerYear {
		t.Fatalf("accrual timestamp not advanced: %d", pos.LastAccrual)
	}
}

func TestAccrueCompoundsOnTotalDebt(t *testing.T) {
	book := NewDebtBook()
	pos := newDebtPosition(1000, 500, 0)

	book.Accrue(pos, secondsPerYear)
	delta := book.Accrue(pos, 2*secondsPerYear)
	// Second year accrues on 1050, not on the original principal.
	if delta.Cmp(big.NewInt(52)) != 0 {
		t.Fatalf("expected 52 interest on the compounded base, got %s", delta)
	}
}

func TestAccrueIdempotentWithinTimestamp(t *testing.T) {
	book := NewDebtBook()
	pos := newDebtPosition(1000, 500, 0)

	book.Accrue(pos, secondsPerYear)
	before := pos.TotalDebt()
	if delta := book.Accrue(pos, secondsPerYear); delta.Sign() != 0 {
		t.Fatalf("expected zero delta on repeat accrual, got %s", delta)
	}
	if pos.TotalDebt().Cmp(before) != 0 {
		t.Fatalf("repeat accrual changed debt: %s -> %s", before, pos.TotalDebt())
	}
	// A timestamp in the past is ignored rather than reversing interest.
	if delta := book.Accrue(pos, secondsPerYear-100); delta.Sign() != 0 {
		t.Fatalf("expected zero delta for stale timestamp, got %s", delta)
	}
}

func TestAccrueCarriesSubUnitInterest(t *testing.T) {
	book := NewDebtBook()
	// 31536 units at 5% accrue exactly 5e13 wad per second, so the split
	// arithmetic below is exact.
	pos := newDebtPosition(31_536, 500, 0)

	// One second of interest is far below one whole unit; the delta floors
	// to zero but the fraction stays on the position.
	if delta := book.Accrue(pos, 1); delta.Sign() != 0 {
		t.Fatalf("expected floored zero delta, got %s", delta)
	}
	if pos.LastAccrual != 1 {
		t.Fatalf("expected timestamp advance, got %d", pos.LastAccrual)
	}
	if pos.InterestRemainderWad.Cmp(big.NewInt(50_000_000_000_000)) != 0 {
		t.Fatalf("expected carried fraction 5e13 wad, got %s", pos.InterestRemainderWad)
	}

	// Completing the year pays out the same floor(31536 * 5%) = 1576 units
	// a single accrual would have.
	book.Accrue(pos, secondsPerYear)
	if pos.AccruedInterest.Cmp(big.NewInt(1576)) != 0 {
		t.Fatalf("expected 1576 interest after full year, got %s", pos.AccruedInterest)
	}
}

func TestAccrueShortCadenceMatchesOneShot(t *testing.T) {
	book := NewDebtBook()
	oneShot := newDebtPosition(1000, 500, 0)
	daily := newDebtPosition(1000, 500, 0)

	const day = int64(86_400)
	for i := int64(1); i <= 30; i++ {
		book.Accrue(daily, i*day)
	}
	book.Accrue(oneShot, 30*day)

	// Per-interval interest is ~0.137 units; a daily cadence must not round
	// it away.
	if daily.AccruedInterest.Cmp(oneShot.AccruedInterest) != 0 {
		t.Fatalf("cadence changed totals: daily=%s one-shot=%s",
			daily.AccruedInterest, oneShot.AccruedInterest)
	}
	if daily.AccruedInterest.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("expected 4 units over 30 days, got %s", daily.AccruedInterest)
	}
}

func TestIncreaseAccruesFirst(t *testing.T) {
	book := NewDebtBook()
	pos := newDebtPosition(1000, 500, 0)

	if err := book.Increase(pos, big.NewInt(500), secondsPerYear); err != nil {
		t.Fatalf("increase: %v", err)
	}
	if pos.Principal.Cmp(big.NewInt(1500)) != 0 {
		t.Fatalf("expected principal 1500, got %s", pos.Principal)
	}
	// The pre-draw year of interest accrued on the original 1000 only.
	if pos.AccruedInterest.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected interest 50, got %s", pos.AccruedInterest)
	}
}

func TestDecreaseInterestFirst(t *testing.T) {
	book := NewDebtBook()
	pos := newDebtPosition(1000, 500, 0)

	interest, principal, err := book.Decrease(pos, big.NewInt(30), secondsPerYear)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if interest.Cmp(big.NewInt(30)) != 0 || principal.Sign() != 0 {
		t.Fatalf("expected pure interest payment, got interest=%s principal=%s", interest, principal)
	}
	if pos.AccruedInterest.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("expected residual interest 20, got %s", pos.AccruedInterest)
	}

	interest, principal, err = book.Decrease(pos, big.NewInt(120), secondsPerYear)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if interest.Cmp(big.NewInt(20)) != 0 || principal.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("expected split 20/100, got interest=%s principal=%s", interest, principal)
	}
	if pos.Principal.Cmp(big.NewInt(900)) != 0 {
		t.Fatalf("expected principal 900, got %s", pos.Principal)
	}
}

func TestDecreaseRejectsOverpayment(t *testing.T) {
	book := NewDebtBook()
	pos := newDebtPosition(1000, 0, 0)

	if _, _, err := book.Decrease(pos, big.NewInt(1001), 0); !errors.Is(err, ErrRepayExceedsDebt) {
		t.Fatalf("expected ErrRepayExceedsDebt, got %v", err)
	}
	if pos.Principal.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("failed decrease mutated principal: %s", pos.Principal)
	}

	interest, principal, err := book.Decrease(pos, big.NewInt(1000), 0)
	if err != nil {
		t.Fatalf("full repayment: %v", err)
	}
	if interest.Sign() != 0 || principal.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("unexpected split: interest=%s principal=%s", interest, principal)
	}
	if pos.TotalDebt().Sign() != 0 {
		t.Fatalf("expected zeroed position, got %s", pos.TotalDebt())
	}
}

func TestZeroRatePositionNeverAccrues(t *testing.T) {
	book := NewDebtBook()
	pos := newDebtPosition(1000, 0, 0)

	if delta := book.Accrue(pos, 10*secondsPerYear); delta.Sign() != 0 {
		t.Fatalf("expected zero interest at zero rate, got %s", delta)
	}
}
