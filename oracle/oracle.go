// Package oracle resolves asset prices denominated in a common reference
// unit. The ledger core depends only on the Feed interface so tests can
// substitute fixed-price stubs; the aggregator layers freshness enforcement
// and history tracking on top of any number of registered feeds.
package oracle

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"
)

// PriceQuote captures the price of one unit of an asset in reference units,
// along with the timestamp reported by the upstream feed and the feed
// identifier.
type PriceQuote struct {
	Rate      *big.Rat
	Timestamp time.Time
	Source    string
}

// Clone returns a deep copy of the quote to prevent accidental mutations.
func (q PriceQuote) Clone() PriceQuote {
	clone := PriceQuote{Timestamp: q.Timestamp, Source: q.Source}
	if q.Rate != nil {
		clone.Rate = new(big.Rat).Set(q.Rate)
	}
	return clone
}

// RateString renders the rate using the supplied precision.
func (q PriceQuote) RateString(precision int) string {
	if q.Rate == nil {
		return ""
	}
	if precision < 0 {
		precision = 18
	}
	return q.Rate.FloatString(precision)
}

// Feed resolves the reference-unit price for a single asset.
type Feed interface {
	GetPrice(asset string) (PriceQuote, error)
}

var (
	// ErrStalePrice indicates no sufficiently fresh price is available for
	// the asset.
	ErrStalePrice = errors.New("oracle: no fresh price available")
	// ErrUnknownAsset indicates no registered feed covers the asset.
	ErrUnknownAsset = errors.New("oracle: asset has no registered feed")
)

// TWAPResult summarises a time-weighted average price calculation over the
// aggregator's rolling observation window.
type TWAPResult struct {
	Average *big.Rat
	Median  *big.Rat
	Start   time.Time
	End     time.Time
	Count   int
	Window  time.Duration
}

// Aggregator consults a list of registered feeds in priority order until a
// fresh quote is obtained. Every served quote is appended to a bounded
// per-asset history buffer used for TWAP and volatility estimation.
type Aggregator struct {
	mu       sync.RWMutex
	priority []string
	feeds    map[string]Feed
	maxAge   time.Duration
	history  map[string][]PriceQuote
	histCap  int
}

const defaultHistoryCap = 128

// NewAggregator constructs an aggregator with the provided priority ordering
// and freshness window. A zero maxAge disables staleness filtering.
func NewAggregator(priority []string, maxAge time.Duration) *Aggregator {
	prio := append([]string{}, priority...)
	return &Aggregator{
		priority: prio,
		feeds:    make(map[string]Feed),
		maxAge:   maxAge,
		history:  make(map[string][]PriceQuote),
		histCap:  defaultHistoryCap,
	}
}

// SetMaxAge updates the freshness window used when filtering quotes.
func (a *Aggregator) SetMaxAge(maxAge time.Duration) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.maxAge = maxAge
	a.mu.Unlock()
}

// SetHistoryCap bounds the stored sample count per asset. A non-positive
// value resets the cap to the default.
func (a *Aggregator) SetHistoryCap(cap int) {
	if a == nil {
		return
	}
	if cap <= 0 {
		cap = defaultHistoryCap
	}
	a.mu.Lock()
	a.histCap = cap
	a.mu.Unlock()
}

// Register adds or replaces a feed under the supplied identifier. Identifiers
// are stored in lowercase so lookups remain consistent regardless of the
// configuration casing.
func (a *Aggregator) Register(name string, feed Feed) {
	if a == nil {
		return
	}
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.feeds[trimmed] = feed
	for _, entry := range a.priority {
		if strings.EqualFold(entry, trimmed) {
			return
		}
	}
	a.priority = append(a.priority, trimmed)
}

// GetPrice fetches a price from the configured feeds respecting the priority
// ordering. The freshness window is enforced and the returned quote is a
// defensive copy so callers cannot mutate shared state.
func (a *Aggregator) GetPrice(asset string) (PriceQuote, error) {
	if a == nil {
		return PriceQuote{}, fmt.Errorf("oracle: aggregator not configured")
	}
	symbol := normaliseSymbol(asset)
	if symbol == "" {
		return PriceQuote{}, fmt.Errorf("oracle: asset required")
	}

	a.mu.RLock()
	priority := append([]string{}, a.priority...)
	maxAge := a.maxAge
	a.mu.RUnlock()

	cutoff := time.Time{}
	if maxAge > 0 {
		cutoff = time.Now().Add(-maxAge)
	}

	consulted := false
	var lastErr error
	for _, name := range priority {
		a.mu.RLock()
		feed := a.feeds[strings.ToLower(name)]
		a.mu.RUnlock()
		if feed == nil {
			continue
		}
		quote, err := feed.GetPrice(symbol)
		if err != nil {
			if errors.Is(err, ErrUnknownAsset) {
				continue
			}
			consulted = true
			lastErr = err
			continue
		}
		consulted = true
		if quote.Rate == nil || quote.Rate.Sign() <= 0 {
			lastErr = fmt.Errorf("oracle: feed %s returned invalid rate", name)
			continue
		}
		if maxAge > 0 && quote.Timestamp.Before(cutoff) {
			lastErr = ErrStalePrice
			continue
		}
		result := quote.Clone()
		if strings.TrimSpace(result.Source) == "" {
			result.Source = strings.ToLower(name)
		}
		a.recordSample(symbol, result)
		return result, nil
	}

	if !consulted {
		return PriceQuote{}, ErrUnknownAsset
	}
	if lastErr == nil {
		lastErr = ErrStalePrice
	}
	return PriceQuote{}, lastErr
}

func (a *Aggregator) recordSample(asset string, quote PriceQuote) {
	if a == nil {
		return
	}
	sample := quote.Clone()
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	} else {
		sample.Timestamp = sample.Timestamp.UTC()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.history == nil {
		a.history = make(map[string][]PriceQuote)
	}
	bucket := append([]PriceQuote{}, a.history[asset]...)
	bucket = append(bucket, sample)
	if a.histCap > 0 && len(bucket) > a.histCap {
		bucket = append([]PriceQuote{}, bucket[len(bucket)-a.histCap:]...)
	}
	a.history[asset] = bucket
}

// TWAP computes the time-weighted average price across the supplied window.
// When no observations fall inside the window ErrStalePrice is returned to
// mirror the freshness semantics of GetPrice.
func (a *Aggregator) TWAP(asset string, window time.Duration) (TWAPResult, error) {
	if a == nil {
		return TWAPResult{}, fmt.Errorf("oracle: aggregator not configured")
	}
	symbol := normaliseSymbol(asset)
	if symbol == "" {
		return TWAPResult{}, fmt.Errorf("oracle: asset required")
	}
	a.mu.RLock()
	bucket := append([]PriceQuote{}, a.history[symbol]...)
	a.mu.RUnlock()
	if len(bucket) == 0 {
		return TWAPResult{}, ErrStalePrice
	}

	var cutoff, start, end time.Time
	if window > 0 {
		end = bucket[len(bucket)-1].Timestamp
		if end.IsZero() {
			end = time.Now().UTC()
		}
		cutoff = end.Add(-window)
	}
	sum := big.NewRat(0, 1)
	used := 0
	values := make([]*big.Rat, 0, len(bucket))
	for _, entry := range bucket {
		if entry.Rate == nil {
			continue
		}
		if window > 0 && entry.Timestamp.Before(cutoff) {
			continue
		}
		if start.IsZero() || entry.Timestamp.Before(start) {
			start = entry.Timestamp
		}
		if entry.Timestamp.After(end) {
			end = entry.Timestamp
		}
		sum.Add(sum, entry.Rate)
		values = append(values, new(big.Rat).Set(entry.Rate))
		used++
	}
	if used == 0 {
		return TWAPResult{}, ErrStalePrice
	}
	avg := new(big.Rat).Quo(sum, big.NewRat(int64(used), 1))
	return TWAPResult{
		Average: avg,
		Median:  computeMedian(values),
		Start:   start,
		End:     end,
		Count:   used,
		Window:  window,
	}, nil
}

// Volatility reports the maximum absolute deviation from the mean observed in
// the asset's history buffer, expressed as a fraction of the mean. The value
// is a coarse dispersion estimate used by risk tooling; zero is returned when
// fewer than two samples exist.
func (a *Aggregator) Volatility(asset string) *big.Rat {
	if a == nil {
		return new(big.Rat)
	}
	symbol := normaliseSymbol(asset)
	a.mu.RLock()
	bucket := append([]PriceQuote{}, a.history[symbol]...)
	a.mu.RUnlock()

	values := make([]*big.Rat, 0, len(bucket))
	sum := big.NewRat(0, 1)
	for _, entry := range bucket {
		if entry.Rate == nil {
			continue
		}
		values = append(values, entry.Rate)
		sum.Add(sum, entry.Rate)
	}
	if len(values) < 2 {
		return new(big.Rat)
	}
	mean := new(big.Rat).Quo(sum, big.NewRat(int64(len(values)), 1))
	if mean.Sign() == 0 {
		return new(big.Rat)
	}
	maxDev := new(big.Rat)
	for _, value := range values {
		dev := new(big.Rat).Sub(value, mean)
		if dev.Sign() < 0 {
			dev.Neg(dev)
		}
		if dev.Cmp(maxDev) > 0 {
			maxDev = dev
		}
	}
	return maxDev.Quo(maxDev, mean)
}

func computeMedian(values []*big.Rat) *big.Rat {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]*big.Rat, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Cmp(sorted[j]) < 0
	})
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return new(big.Rat).Set(sorted[mid])
	}
	sum := new(big.Rat).Add(sorted[mid-1], sorted[mid])
	return sum.Quo(sum, big.NewRat(2, 1))
}

func normaliseSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
