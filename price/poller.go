package price

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultInterval is the default delay between two samples.
const DefaultInterval = 30 * time.Second

// Quoter is anything that quotes a price without failing, like a Feed.
type Quoter interface {
	Quote(ctx context.Context) decimal.Decimal
}

// Poller samples a Quoter periodically. It only writes its own Cell and Ring.
type Poller struct {
	quoter   Quoter
	interval time.Duration
	now      func() time.Time
	latest   Cell[Point]
	history  *Ring
}

// NewPoller returns a Poller sampling q every interval and keeping 'capacity' points.
func NewPoller(q Quoter, interval time.Duration, capacity int) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{quoter: q, interval: interval, now: time.Now, history: NewRing(capacity)}
}

// Sample quotes the price once and records it.
func (p *Poller) Sample(ctx context.Context) Point {
	pt := Point{Time: p.now(), Price: p.quoter.Quote(ctx)}
	p.latest.Set(pt)
	p.history.Append(pt)
	return pt
}

// Run samples immediately, then every interval, until ctx is done. Each
// sample is also sent to 'samples' if not nil, without blocking.
func (p *Poller) Run(ctx context.Context, samples chan<- Point) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		pt := p.Sample(ctx)
		if samples != nil {
			select {
			case samples <- pt:
			default:
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Latest returns the last sample, ok is false before the first one.
func (p *Poller) Latest() (Point, bool) { return p.latest.Get() }

// History returns the recent samples, oldest first.
func (p *Poller) History() []Point { return p.history.Points() }
