package ledger

import (
	"fmt"
	"math/big"
	"time"

	"lendledger/oracle"
)

// Vault converts collateral balances to valuations in other assets using the
// injected price feed. Balance bookkeeping itself lives in engine state; the
// vault owns the pricing math so it can be exercised in isolation.
type Vault struct {
	feed oracle.Feed
}

// NewVault constructs a vault backed by the supplied price feed.
func NewVault(feed oracle.Feed) *Vault {
	return &Vault{feed: feed}
}

// Price resolves the reference-unit price for the asset. A missing or
// non-positive price is fatal for any valuation-dependent operation, so the
// oracle error is surfaced unchanged.
func (v *Vault) Price(asset string) (*big.Rat, error) {
	if v == nil || v.feed == nil {
		return nil, fmt.Errorf("lending ledger: price feed not configured")
	}
	quote, err := v.feed.GetPrice(asset)
	if err != nil {
		return nil, err
	}
	if quote.Rate == nil || quote.Rate.Sign() <= 0 {
		return nil, oracle.ErrStalePrice
	}
	return quote.Rate, nil
}

// HistorySource is the richer surface exposed by feeds that retain an
// observation history, such as the oracle aggregator. Valuation itself works
// against any Feed; only the risk views below need it.
type HistorySource interface {
	TWAP(asset string, window time.Duration) (oracle.TWAPResult, error)
	Volatility(asset string) *big.Rat
}

// Risk reports the time-weighted average price over the window and the
// observed price dispersion for the asset. Operations consoles use it to
// judge how much trust a spot valuation deserves before acting on a marginal
// health factor.
func (v *Vault) Risk(asset string, window time.Duration) (oracle.TWAPResult, *big.Rat, error) {
	if v == nil || v.feed == nil {
		return oracle.TWAPResult{}, nil, fmt.Errorf("lending ledger: price feed not configured")
	}
	source, ok := v.feed.(HistorySource)
	if !ok {
		return oracle.TWAPResult{}, nil, fmt.Errorf("lending ledger: price feed keeps no history")
	}
	twap, err := source.TWAP(asset, window)
	if err != nil {
		return oracle.TWAPResult{}, nil, err
	}
	return twap, source.Volatility(asset), nil
}

// Value converts an amount of one asset into another asset's native scale:
// amount × price(asset) / price(inTermsOf), adjusted for the two fixed-point
// scales and floored.
func (v *Vault) Value(amount *big.Int, asset, inTermsOf *Asset) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	if asset == nil || inTermsOf == nil {
		return nil, ErrUnknownAsset
	}
	if asset.Symbol == inTermsOf.Symbol {
		return new(big.Int).Set(amount), nil
	}
	fromPrice, err := v.Price(asset.Symbol)
	if err != nil {
		return nil, err
	}
	toPrice, err := v.Price(inTermsOf.Symbol)
	if err != nil {
		return nil, err
	}
	value := new(big.Rat).SetInt(amount)
	value.Mul(value, fromPrice)
	value.Quo(value, toPrice)
	value.Mul(value, new(big.Rat).SetInt(pow10(inTermsOf.Decimals)))
	value.Quo(value, new(big.Rat).SetInt(pow10(asset.Decimals)))
	return ratFloor(value), nil
}
