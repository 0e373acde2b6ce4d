// Package price follows the market price of Solana in USD.
//
// A Feed quotes the price on demand, a Poller samples a Feed at a fixed
// interval into a Ring of recent points and a Cell holding the latest one.
package price

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// DefaultURL is the CoinGecko simple price endpoint for SOL in USD.
	DefaultURL = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"
	// DefaultPath locates the price in the DefaultURL response.
	DefaultPath = "$.solana.usd"
	// DefaultTTL is how long a fetched price is served without asking again.
	DefaultTTL = 10 * time.Second
)

var (
	// FallbackBase is the price used when no quote ever succeeded.
	FallbackBase = decimal.RequireFromString("145.50")
	half         = decimal.RequireFromString("0.5")
)

// Feed quotes the USD price of one SOL.
//
// Fields must be set before the first call to Quote.
type Feed struct {
	URL    string
	Path   string // jsonpath of the price in the response
	Client *http.Client
	TTL    time.Duration
	Now    func() time.Time
	Rand   func() float64 // uniform in [0,1)
	Log    zerolog.Logger

	mu   sync.Mutex
	last decimal.Decimal // last fetched price, zero if none
	at   time.Time       // when last was fetched
}

// NewFeed returns a Feed on the CoinGecko public API.
func NewFeed() *Feed {
	return &Feed{
		URL:    DefaultURL,
		Path:   DefaultPath,
		Client: &http.Client{Timeout: 10 * time.Second},
		TTL:    DefaultTTL,
		Now:    time.Now,
		Rand:   rand.Float64,
		Log:    zerolog.Nop(),
	}
}

// Quote returns the current price, it never fails.
//
// A price fetched less than TTL ago is served again. Otherwise the price is
// fetched, and if that fails Quote returns a value close to the last fetched
// price (or FallbackBase) slightly moved at random. Fallback values are not
// cached.
func (f *Feed) Quote(ctx context.Context) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.Now()
	if f.last.IsPositive() && now.Sub(f.at) < f.TTL {
		return f.last
	}
	p, err := f.fetch(ctx)
	if err != nil {
		f.Log.Warn().Err(err).Msg("price feed unavailable, using a fallback price")
		return f.fallback()
	}
	f.last, f.at = p, now
	return p
}

// fallback returns base + (rand-0.5)*0.5.
func (f *Feed) fallback() decimal.Decimal {
	base := FallbackBase
	if f.last.IsPositive() {
		base = f.last
	}
	jitter := decimal.NewFromFloat(f.Rand()).Sub(half).Mul(half)
	return base.Add(jitter)
}

// fetch asks the remote API for the price.
func (f *Feed) fetch(ctx context.Context) (decimal.Decimal, error) {
	var jobj any
	if err := getJSON(ctx, f.Client, f.URL, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("cannot get price: %w", err)
	}
	jval, err := jsonpath.Get(f.Path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot read price at %q: %w", f.Path, err)
	}
	// keep the first answer if jsonpath returned a list
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("price at %q is not a number: %v", f.Path, jval)
	}
	p := decimal.NewFromFloat(val)
	if !p.IsPositive() {
		return decimal.Zero, fmt.Errorf("price at %q is not positive: %v", f.Path, val)
	}
	return p, nil
}
