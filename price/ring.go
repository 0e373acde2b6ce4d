package price

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCapacity is the number of points kept by default.
const DefaultCapacity = 20

// Point is a price sampled at some time of the day.
type Point struct {
	Time  time.Time
	Price decimal.Decimal
}

// Label returns the time of the point as "H:M", without padding.
func (p Point) Label() string { return fmt.Sprintf("%d:%d", p.Time.Hour(), p.Time.Minute()) }

// Ring keeps the last points appended, oldest first. It is safe for concurrent use.
type Ring struct {
	mu     sync.Mutex
	points []Point
	size   int
}

// NewRing returns an empty ring holding up to capacity points.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{points: make([]Point, 0, capacity), size: capacity}
}

// Append adds p, dropping the oldest point when the ring is full.
func (r *Ring) Append(p Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.points) == r.size {
		r.points = slices.Delete(r.points, 0, 1)
	}
	r.points = append(r.points, p)
}

// Points returns a copy of the points, oldest first.
func (r *Ring) Points() []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.points)
}

// Len returns the number of points.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.points)
}
