package oracle

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type staticFeed struct {
	quotes map[string]PriceQuote
}

func (f *staticFeed) GetPrice(asset string) (PriceQuote, error) {
	quote, ok := f.quotes[asset]
	if !ok {
		return PriceQuote{}, ErrUnknownAsset
	}
	return quote.Clone(), nil
}

func TestAggregatorPriorityOrdering(t *testing.T) {
	primary := &staticFeed{quotes: map[string]PriceQuote{
		"BTC": {Rate: big.NewRat(50_000, 1), Timestamp: time.Now(), Source: "primary"},
	}}
	secondary := &staticFeed{quotes: map[string]PriceQuote{
		"BTC": {Rate: big.NewRat(49_000, 1), Timestamp: time.Now(), Source: "secondary"},
		"ETH": {Rate: big.NewRat(3_000, 1), Timestamp: time.Now(), Source: "secondary"},
	}}
	agg := NewAggregator([]string{"primary", "secondary"}, time.Minute)
	agg.Register("primary", primary)
	agg.Register("secondary", secondary)

	quote, err := agg.GetPrice("btc")
	require.NoError(t, err)
	require.Equal(t, "primary", quote.Source)
	require.Equal(t, 0, quote.Rate.Cmp(big.NewRat(50_000, 1)))

	// Falls through to the secondary feed for assets the primary lacks.
	quote, err = agg.GetPrice("ETH")
	require.NoError(t, err)
	require.Equal(t, "secondary", quote.Source)
}

func TestAggregatorStaleness(t *testing.T) {
	feed := &staticFeed{quotes: map[string]PriceQuote{
		"BTC": {Rate: big.NewRat(50_000, 1), Timestamp: time.Now().Add(-time.Hour), Source: "slow"},
	}}
	agg := NewAggregator(nil, time.Minute)
	agg.Register("slow", feed)

	_, err := agg.GetPrice("BTC")
	require.ErrorIs(t, err, ErrStalePrice)

	// Disabling the freshness window accepts the old quote.
	agg.SetMaxAge(0)
	_, err = agg.GetPrice("BTC")
	require.NoError(t, err)
}

func TestAggregatorUnknownAsset(t *testing.T) {
	agg := NewAggregator(nil, time.Minute)
	agg.Register("empty", &staticFeed{quotes: map[string]PriceQuote{}})

	_, err := agg.GetPrice("DOGE")
	require.ErrorIs(t, err, ErrUnknownAsset)
}

func TestAggregatorTWAPAndMedian(t *testing.T) {
	manual := NewManualFeed()
	agg := NewAggregator([]string{"manual"}, 0)
	agg.Register("manual", manual)

	base := time.Now().Add(-3 * time.Minute)
	for i, rate := range []*big.Rat{
		big.NewRat(100, 1),
		big.NewRat(110, 1),
		big.NewRat(150, 1),
	} {
		manual.SetPrice("BTC", rate, base.Add(time.Duration(i)*time.Minute))
		_, err := agg.GetPrice("BTC")
		require.NoError(t, err)
	}

	result, err := agg.TWAP("BTC", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 3, result.Count)
	require.Equal(t, 0, result.Average.Cmp(big.NewRat(120, 1)))
	require.Equal(t, 0, result.Median.Cmp(big.NewRat(110, 1)))

	_, err = agg.TWAP("ETH", time.Hour)
	require.ErrorIs(t, err, ErrStalePrice)
}

func TestAggregatorVolatility(t *testing.T) {
	manual := NewManualFeed()
	agg := NewAggregator([]string{"manual"}, 0)
	agg.Register("manual", manual)

	require.Equal(t, 0, agg.Volatility("BTC").Sign())

	for _, rate := range []*big.Rat{big.NewRat(90, 1), big.NewRat(110, 1)} {
		manual.SetPrice("BTC", rate, time.Now())
		_, err := agg.GetPrice("BTC")
		require.NoError(t, err)
	}
	// Mean 100, max deviation 10: dispersion 0.10.
	require.Equal(t, 0, agg.Volatility("BTC").Cmp(big.NewRat(1, 10)))
}

func TestAggregatorHistoryCap(t *testing.T) {
	manual := NewManualFeed()
	agg := NewAggregator([]string{"manual"}, 0)
	agg.Register("manual", manual)
	agg.SetHistoryCap(4)

	for i := 1; i <= 10; i++ {
		manual.SetPrice("BTC", big.NewRat(int64(i), 1), time.Now())
		_, err := agg.GetPrice("BTC")
		require.NoError(t, err)
	}
	result, err := agg.TWAP("BTC", 0)
	require.NoError(t, err)
	require.Equal(t, 4, result.Count)
	// Only the newest samples (7..10) remain.
	require.Equal(t, 0, result.Average.Cmp(big.NewRat(17, 2)))
}

func TestManualFeed(t *testing.T) {
	feed := NewManualFeed()
	require.NoError(t, feed.SetDecimal("eth", "1912.50", time.Now()))
	quote, err := feed.GetPrice("ETH")
	require.NoError(t, err)
	require.Equal(t, 0, quote.Rate.Cmp(big.NewRat(76_500, 40)))
	require.Equal(t, "manual", quote.Source)

	// Never-priced symbols are stale, not unknown: the feed exists, the
	// quote does not.
	_, err = feed.GetPrice("SOL")
	require.ErrorIs(t, err, ErrStalePrice)

	require.Error(t, feed.SetDecimal("eth", "not-a-number", time.Now()))
	require.Error(t, feed.SetDecimal("eth", "-5", time.Now()))
}
