package oracle

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPDoer abstracts http.Client for ease of testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFeed adapts a CoinGecko-style simple price endpoint. idMap allows the
// caller to map ledger asset symbols to upstream asset identifiers.
type HTTPFeed struct {
	client    HTTPDoer
	endpoint  string
	reference string
	idMap     map[string]string
}

const defaultPriceEndpoint = "https://api.coingecko.com/api/v3/simple/price"

// NewHTTPFeed constructs a new adapter. When the client is nil
// http.DefaultClient is used; reference names the quote currency requested
// from the upstream API (defaults to usd).
func NewHTTPFeed(client HTTPDoer, endpoint, reference string, idMap map[string]string) *HTTPFeed {
	ep := strings.TrimSpace(endpoint)
	if ep == "" {
		ep = defaultPriceEndpoint
	}
	ref := strings.ToLower(strings.TrimSpace(reference))
	if ref == "" {
		ref = "usd"
	}
	if client == nil {
		client = http.DefaultClient
	}
	mapped := make(map[string]string, len(idMap))
	for k, v := range idMap {
		mapped[normaliseSymbol(k)] = strings.TrimSpace(v)
	}
	return &HTTPFeed{client: client, endpoint: ep, reference: ref, idMap: mapped}
}

func (f *HTTPFeed) assetID(symbol string) string {
	if f == nil {
		return ""
	}
	if id, ok := f.idMap[normaliseSymbol(symbol)]; ok && id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(symbol))
}

// GetPrice fetches the asset price from the upstream endpoint.
func (f *HTTPFeed) GetPrice(asset string) (PriceQuote, error) {
	if f == nil {
		return PriceQuote{}, fmt.Errorf("oracle: http feed not configured")
	}
	id := f.assetID(asset)
	if id == "" {
		return PriceQuote{}, ErrUnknownAsset
	}
	req, err := http.NewRequest(http.MethodGet, f.endpoint, nil)
	if err != nil {
		return PriceQuote{}, err
	}
	values := url.Values{}
	values.Set("ids", id)
	values.Set("vs_currencies", f.reference)
	values.Set("include_last_updated_at", "true")
	req.URL.RawQuery = values.Encode()
	resp, err := f.client.Do(req)
	if err != nil {
		return PriceQuote{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PriceQuote{}, fmt.Errorf("oracle: http feed status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload map[string]map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		return PriceQuote{}, fmt.Errorf("oracle: http feed decode: %w", err)
	}
	entry, ok := payload[id]
	if !ok {
		return PriceQuote{}, ErrUnknownAsset
	}
	priceStr := ""
	if raw, exists := entry[f.reference]; exists {
		switch v := raw.(type) {
		case json.Number:
			priceStr = v.String()
		case string:
			priceStr = v
		case float64:
			priceStr = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			priceStr = fmt.Sprintf("%v", v)
		}
	}
	priceStr = strings.TrimSpace(priceStr)
	if priceStr == "" {
		return PriceQuote{}, fmt.Errorf("oracle: http feed returned empty price")
	}
	rat, ok := new(big.Rat).SetString(priceStr)
	if !ok || rat.Sign() <= 0 {
		return PriceQuote{}, fmt.Errorf("oracle: http feed returned invalid price %q", priceStr)
	}
	var ts time.Time
	if rawTs, exists := entry["last_updated_at"]; exists {
		switch v := rawTs.(type) {
		case json.Number:
			if parsed, err := v.Int64(); err == nil && parsed > 0 {
				ts = time.Unix(parsed, 0)
			}
		case string:
			if parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && parsed > 0 {
				ts = time.Unix(parsed, 0)
			}
		case float64:
			if v > 0 {
				ts = time.Unix(int64(v), 0)
			}
		}
	}
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return PriceQuote{Rate: rat, Timestamp: ts, Source: "http"}, nil
}
