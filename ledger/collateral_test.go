package ledger

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"lendledger/oracle"
)

func TestVaultValueCrossCurrency(t *testing.T) {
	feed := oracle.NewManualFeed()
	feed.SetPrice("ETH", big.NewRat(2000, 1), time.Now())
	feed.SetPrice("USD", big.NewRat(1, 1), time.Now())
	vault := NewVault(feed)

	eth := &Asset{Symbol: "ETH", Decimals: 18}
	usd := &Asset{Symbol: "USD", Decimals: 6}

	// 1.5 ETH at 2000 = 3,000,000,000 micro-USD.
	amount, _ := new(big.Int).SetString("1500000000000000000", 10)
	value, err := vault.Value(amount, eth, usd)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value.Cmp(big.NewInt(3_000_000_000)) != 0 {
		t.Fatalf("expected 3000000000, got %s", value)
	}

	// And back: 3000 USD buys 1.5 ETH.
	back, err := vault.Value(big.NewInt(3_000_000_000), usd, eth)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if back.Cmp(amount) != 0 {
		t.Fatalf("expected %s, got %s", amount, back)
	}
}

func TestVaultValueFloors(t *testing.T) {
	feed := oracle.NewManualFeed()
	feed.SetPrice("A", big.NewRat(1, 1), time.Now())
	feed.SetPrice("B", big.NewRat(3, 1), time.Now())
	vault := NewVault(feed)

	a := &Asset{Symbol: "A", Decimals: 0}
	b := &Asset{Symbol: "B", Decimals: 0}

	// 100 / 3 floors to 33.
	value, err := vault.Value(big.NewInt(100), a, b)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value.Cmp(big.NewInt(33)) != 0 {
		t.Fatalf("expected floor 33, got %s", value)
	}
}

func TestVaultValueSameAssetShortCircuits(t *testing.T) {
	vault := NewVault(oracle.NewManualFeed())
	asset := &Asset{Symbol: "X", Decimals: 6}

	// No price needed when converting an asset into itself.
	value, err := vault.Value(big.NewInt(42), asset, asset)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("expected passthrough 42, got %s", value)
	}
}

func TestVaultRejectsNonPositivePrice(t *testing.T) {
	feed := oracle.NewManualFeed()
	feed.SetPrice("X", big.NewRat(1, 1), time.Now())
	vault := NewVault(feed)

	if _, err := vault.Price("MISSING"); !errors.Is(err, oracle.ErrStalePrice) {
		t.Fatalf("expected oracle.ErrStalePrice, got %v", err)
	}
}

func TestVaultRiskFromAggregatorHistory(t *testing.T) {
	manual := oracle.NewManualFeed()
	agg := oracle.NewAggregator([]string{"manual"}, 0)
	agg.Register("manual", manual)
	vault := NewVault(agg)

	for _, rate := range []*big.Rat{big.NewRat(90, 1), big.NewRat(110, 1)} {
		manual.SetPrice("ETH", rate, time.Now())
		if _, err := agg.GetPrice("ETH"); err != nil {
			t.Fatalf("record sample: %v", err)
		}
	}

	twap, dispersion, err := vault.Risk("ETH", time.Hour)
	if err != nil {
		t.Fatalf("risk: %v", err)
	}
	if twap.Average.Cmp(big.NewRat(100, 1)) != 0 {
		t.Fatalf("expected TWAP 100, got %s", twap.Average.FloatString(2))
	}
	if dispersion.Cmp(big.NewRat(1, 10)) != 0 {
		t.Fatalf("expected dispersion 0.10, got %s", dispersion.FloatString(2))
	}

	// A bare feed keeps no history, so the risk view refuses rather than
	// fabricating a flat series.
	if _, _, err := NewVault(manual).Risk("ETH", time.Hour); err == nil {
		t.Fatalf("expected error for history-less feed")
	}
}

func TestAddCollateralRequiresApproval(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	listAsset(t, engine, "X", 0)

	err := engine.AddCollateral("alice", "X", big.NewInt(100))
	if !errors.Is(err, ErrUnapprovedCollateral) {
		t.Fatalf("expected ErrUnapprovedCollateral, got %v", err)
	}
	if err := engine.AddCollateral("alice", "NOPE", big.NewInt(100)); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("expected ErrUnknownAsset, got %v", err)
	}
}

func TestRemoveCollateralGuardsOpenDebt(t *testing.T) {
	engine, state, feed, _ := newTestEngine(t)
	listAsset(t, engine, "X", 0)
	listAsset(t, engine, "Y", 0)
	approveCollateral(t, engine, "Y")
	feed.SetPrice("X", big.NewRat(1, 1), time.Now())
	feed.SetPrice("Y", big.NewRat(1, 1), time.Now())

	if err := engine.Deposit("lender", "X", big.NewInt(5000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := engine.AddCollateral("borrower", "Y", big.NewInt(2000)); err != nil {
		t.Fatalf("collateral: %v", err)
	}
	if err := engine.Borrow("borrower", "Y", "X", big.NewInt(1000)); err != nil {
		t.Fatalf("borrow: %v", err)
	}

	// Removing 1300 would leave 700 against 1000 debt: 70%, below the 75%
	// liquidation threshold.
	err := engine.RemoveCollateral("borrower", "Y", big.NewInt(1300))
	if !errors.Is(err, ErrInsufficientCollateral) {
		t.Fatalf("expected ErrInsufficientCollateral, got %v", err)
	}
	// Removing 1200 leaves exactly 80%, which clears the threshold.
	if err := engine.RemoveCollateral("borrower", "Y", big.NewInt(1200)); err != nil {
		t.Fatalf("remove within threshold: %v", err)
	}
	if got := state.collaterals["borrower/Y"].Amount; got.Cmp(big.NewInt(800)) != 0 {
		t.Fatalf("expected remaining 800, got %s", got)
	}
}

func TestRemoveCollateralMoreThanHeld(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	listAsset(t, engine, "Y", 0)
	approveCollateral(t, engine, "Y")

	if err := engine.AddCollateral("alice", "Y", big.NewInt(100)); err != nil {
		t.Fatalf("collateral: %v", err)
	}
	err := engine.RemoveCollateral("alice", "Y", big.NewInt(101))
	if !errors.Is(err, ErrInsufficientCollateral) {
		t.Fatalf("expected ErrInsufficientCollateral, got %v", err)
	}
}
