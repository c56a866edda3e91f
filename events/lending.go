package events

import (
	"math/big"
	"strings"
)

const (
	// TypeDeposited is emitted when a lender supplies liquidity to a pool.
	TypeDeposited = "lend.deposited"
	// TypeWithdrawn is emitted when a lender redeems pool liquidity.
	TypeWithdrawn = "lend.withdrawn"
	// TypeCollateralAdded is emitted when a borrower locks collateral.
	TypeCollateralAdded = "lend.collateral_added"
	// TypeCollateralRemoved is emitted when a borrower releases collateral.
	TypeCollateralRemoved = "lend.collateral_removed"
	// TypeBorrowed is emitted when a borrower draws liquidity against
	// collateral denominated in a different asset.
	TypeBorrowed = "lend.borrowed"
	// TypeRepaid is emitted when outstanding debt is repaid.
	TypeRepaid = "lend.repaid"
	// TypeRatesUpdated is emitted when a pool resamples its interest rates.
	TypeRatesUpdated = "lend.rates_updated"
	// TypeLiquidated is emitted when an undercollateralized position is
	// closed by a liquidator.
	TypeLiquidated = "lend.liquidated"
)

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// Deposited records a lender supplying liquidity.
type Deposited struct {
	User   string
	Asset  string
	Amount *big.Int
}

func (Deposited) EventType() string { return TypeDeposited }

func (e Deposited) Attributes() map[string]string {
	return map[string]string{
		"user":   strings.TrimSpace(e.User),
		"asset":  strings.TrimSpace(e.Asset),
		"amount": amountString(e.Amount),
	}
}

// Withdrawn records a lender redeeming liquidity.
type Withdrawn struct {
	User   string
	Asset  string
	Amount *big.Int
}

func (Withdrawn) EventType() string { return TypeWithdrawn }

func (e Withdrawn) Attributes() map[string]string {
	return map[string]string{
		"user":   strings.TrimSpace(e.User),
		"asset":  strings.TrimSpace(e.Asset),
		"amount": amountString(e.Amount),
	}
}

// CollateralAdded records collateral locked by a borrower.
type CollateralAdded struct {
	User   string
	Asset  string
	Amount *big.Int
}

func (CollateralAdded) EventType() string { return TypeCollateralAdded }

func (e CollateralAdded) Attributes() map[string]string {
	return map[string]string{
		"user":   strings.TrimSpace(e.User),
		"asset":  strings.TrimSpace(e.Asset),
		"amount": amountString(e.Amount),
	}
}

// CollateralRemoved records collateral released back to a borrower.
type CollateralRemoved struct {
	User   string
	Asset  string
	Amount *big.Int
}

func (CollateralRemoved) EventType() string { return TypeCollateralRemoved }

func (e CollateralRemoved) Attributes() map[string]string {
	return map[string]string{
		"user":   strings.TrimSpace(e.User),
		"asset":  strings.TrimSpace(e.Asset),
		"amount": amountString(e.Amount),
	}
}

// Borrowed records a draw against collateral.
type Borrowed struct {
	User            string
	CollateralAsset string
	BorrowAsset     string
	Amount          *big.Int
}

func (Borrowed) EventType() string { return TypeBorrowed }

func (e Borrowed) Attributes() map[string]string {
	return map[string]string{
		"user":            strings.TrimSpace(e.User),
		"collateralAsset": strings.TrimSpace(e.CollateralAsset),
		"borrowAsset":     strings.TrimSpace(e.BorrowAsset),
		"amount":          amountString(e.Amount),
	}
}

// Repaid records a debt repayment, split into the interest and principal
// portions actually applied.
type Repaid struct {
	User      string
	Asset     string
	Amount    *big.Int
	Interest  *big.Int
	Principal *big.Int
}

func (Repaid) EventType() string { return TypeRepaid }

func (e Repaid) Attributes() map[string]string {
	return map[string]string{
		"user":      strings.TrimSpace(e.User),
		"asset":     strings.TrimSpace(e.Asset),
		"amount":    amountString(e.Amount),
		"interest":  amountString(e.Interest),
		"principal": amountString(e.Principal),
	}
}

// RatesUpdated records a pool-level interest rate resample.
type RatesUpdated struct {
	Asset         string
	BorrowRateBps uint64
	SupplyRateBps uint64
}

func (RatesUpdated) EventType() string { return TypeRatesUpdated }

func (e RatesUpdated) Attributes() map[string]string {
	return map[string]string{
		"asset":         strings.TrimSpace(e.Asset),
		"borrowRateBps": uintString(e.BorrowRateBps),
		"supplyRateBps": uintString(e.SupplyRateBps),
	}
}

// Liquidated records a forced close of an undercollateralized position.
type Liquidated struct {
	Liquidator      string
	Borrower        string
	DebtAsset       string
	CollateralAsset string
	RepaidAmount    *big.Int
	SeizedAmount    *big.Int
}

func (Liquidated) EventType() string { return TypeLiquidated }

func (e Liquidated) Attributes() map[string]string {
	return map[string]string{
		"liquidator":      strings.TrimSpace(e.Liquidator),
		"borrower":        strings.TrimSpace(e.Borrower),
		"debtAsset":       strings.TrimSpace(e.DebtAsset),
		"collateralAsset": strings.TrimSpace(e.CollateralAsset),
		"repaidAmount":    amountString(e.RepaidAmount),
		"seizedAmount":    amountString(e.SeizedAmount),
	}
}
