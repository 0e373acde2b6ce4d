package price

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// counter quotes 1, 2, 3, ...
type counter struct{ n int64 }

func (c *counter) Quote(ctx context.Context) decimal.Decimal {
	c.n++
	return decimal.NewFromInt(c.n)
}

func TestRing(t *testing.T) {
	r := NewRing(3)
	for i := range 5 {
		r.Append(Point{Price: decimal.NewFromInt(int64(i))})
	}
	got := r.Points()
	if len(got) != 3 {
		t.Fatalf("Len() = %d want 3", len(got))
	}
	for i, p := range got {
		if want := decimal.NewFromInt(int64(i + 2)); !p.Price.Equal(want) {
			t.Errorf("Points()[%d] = %s want %s", i, p.Price, want)
		}
	}
}

func TestPoint_Label(t *testing.T) {
	p := Point{Time: time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC)}
	if got := p.Label(); got != "9:5" {
		t.Errorf("Label() = %q want %q", got, "9:5")
	}
}

func TestCell(t *testing.T) {
	var c Cell[string]
	if _, ok := c.Get(); ok {
		t.Errorf("Get() on an empty cell ok = true")
	}
	c.Set("late")
	c.Set("later")
	if v, ok := c.Get(); !ok || v != "later" {
		t.Errorf("Get() = %q, %v want %q, true", v, ok, "later")
	}
}

func TestPoller_Sample(t *testing.T) {
	p := NewPoller(&counter{}, time.Hour, DefaultCapacity)
	if _, ok := p.Latest(); ok {
		t.Errorf("Latest() before any sample ok = true")
	}
	for range DefaultCapacity + 5 {
		p.Sample(context.Background())
	}
	latest, ok := p.Latest()
	if !ok || !latest.Price.Equal(decimal.NewFromInt(DefaultCapacity+5)) {
		t.Errorf("Latest() = %s, %v want %d", latest.Price, ok, DefaultCapacity+5)
	}
	if n := len(p.History()); n != DefaultCapacity {
		t.Errorf("len(History()) = %d want %d", n, DefaultCapacity)
	}
}

func TestPoller_Run(t *testing.T) {
	p := NewPoller(&counter{}, 5*time.Millisecond, DefaultCapacity)
	ctx, cancel := context.WithCancel(context.Background())
	samples := make(chan Point, 10)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, samples)
		close(done)
	}()
	first := <-samples
	if !first.Price.Equal(decimal.NewFromInt(1)) {
		t.Errorf("first sample = %s want 1", first.Price)
	}
	<-samples
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if n := len(p.History()); n < 2 {
		t.Errorf("len(History()) = %d want at least 2", n)
	}
}
