package oracle

import (
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

// ManualFeed provides an in-memory feed implementation used for tests and
// manual overrides during incident response. Price setting is asset-keyed and
// administrative; ordinary ledger callers only ever read.
type ManualFeed struct {
	mu     sync.RWMutex
	quotes map[string]PriceQuote
}

// NewManualFeed constructs an empty manual feed instance.
func NewManualFeed() *ManualFeed {
	return &ManualFeed{quotes: make(map[string]PriceQuote)}
}

// SetDecimal records the supplied decimal rate for the asset using the
// provided timestamp.
func (m *ManualFeed) SetDecimal(asset, rate string, ts time.Time) error {
	if m == nil {
		return fmt.Errorf("oracle: manual feed not configured")
	}
	trimmed := strings.TrimSpace(rate)
	if trimmed == "" {
		return fmt.Errorf("oracle: rate required")
	}
	rat, ok := new(big.Rat).SetString(trimmed)
	if !ok {
		return fmt.Errorf("oracle: invalid rate %q", rate)
	}
	if rat.Sign() <= 0 {
		return fmt.Errorf("oracle: rate must be positive")
	}
	m.SetPrice(asset, rat, ts)
	return nil
}

// SetPrice stores the provided rational price for the asset.
func (m *ManualFeed) SetPrice(asset string, rate *big.Rat, ts time.Time) {
	if m == nil || rate == nil || rate.Sign() <= 0 {
		return
	}
	symbol := normaliseSymbol(asset)
	if symbol == "" {
		return
	}
	quote := PriceQuote{Timestamp: ts, Source: "manual"}
	quote.Rate = new(big.Rat).Set(rate)
	m.mu.Lock()
	m.quotes[symbol] = quote
	m.mu.Unlock()
}

// GetPrice retrieves the stored price for the asset. A symbol that has never
// been priced reports ErrStalePrice; ErrUnknownAsset is reserved for the
// aggregator's no-registered-feed case.
func (m *ManualFeed) GetPrice(asset string) (PriceQuote, error) {
	if m == nil {
		return PriceQuote{}, fmt.Errorf("oracle: manual feed not configured")
	}
	symbol := normaliseSymbol(asset)
	m.mu.RLock()
	stored, ok := m.quotes[symbol]
	m.mu.RUnlock()
	if !ok {
		return PriceQuote{}, ErrStalePrice
	}
	return stored.Clone(), nil
}
