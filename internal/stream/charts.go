package stream

import (
	"math"
	"sync"
	"time"

	"github.com/pulseboard/backend/pkg/random"
)

const (
	revenueFloor  = 1000
	revenueStep   = 250
	targetStep    = 100
	categoryFloor = 50
	categoryStep  = 25
	growthStep    = 1
)

type RevenuePoint struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Target  float64 `json:"target"`
}

type CategoryPoint struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Growth float64 `json:"growth"`
}

type ChartSnapshot struct {
	Tick       uint64          `json:"tick"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Revenue    []RevenuePoint  `json:"revenue"`
	Categories []CategoryPoint `json:"categories"`
}

func DefaultRevenue() []RevenuePoint {
	return []RevenuePoint{
		{Name: "Week 1", Revenue: 4000, Target: 3800},
		{Name: "Week 2", Revenue: 4600, Target: 4200},
		{Name: "Week 3", Revenue: 3800, Target: 4000},
		{Name: "Week 4", Revenue: 5000, Target: 4500},
	}
}

func DefaultCategories() []CategoryPoint {
	return []CategoryPoint{
		{Name: "Electronics", Value: 400, Growth: 12.5},
		{Name: "Clothing", Value: 300, Growth: -2.1},
		{Name: "Home", Value: 200, Growth: 8.3},
		{Name: "Beauty", Value: 100, Growth: -5.7},
	}
}

// ChartStream walks the weekly revenue series and the category breakdown.
// Revenue never drops below 1000 and category values never below 50; targets
// and growth drift freely.
type ChartStream struct {
	mu         sync.RWMutex
	revenue    []RevenuePoint
	categories []CategoryPoint
	ticks      uint64
	updatedAt  time.Time
	src        random.Source
	now        func() time.Time
}

func NewChartStream(src random.Source, revenue []RevenuePoint, categories []CategoryPoint) *ChartStream {
	c := &ChartStream{
		revenue:    append([]RevenuePoint(nil), revenue...),
		categories: append([]CategoryPoint(nil), categories...),
		src:        src,
		now:        time.Now,
	}
	c.updatedAt = c.now()
	return c
}

func (c *ChartStream) Tick() ChartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.revenue {
		p := &c.revenue[i]
		p.Revenue = math.Max(revenueFloor, p.Revenue+random.Symmetric(c.src, revenueStep))
		p.Target += random.Symmetric(c.src, targetStep)
	}
	for i := range c.categories {
		p := &c.categories[i]
		p.Value = math.Max(categoryFloor, p.Value+random.Symmetric(c.src, categoryStep))
		p.Growth += random.Symmetric(c.src, growthStep)
	}
	c.ticks++
	c.updatedAt = c.now()

	return c.snapshotLocked()
}

func (c *ChartStream) Snapshot() ChartSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *ChartStream) snapshotLocked() ChartSnapshot {
	return ChartSnapshot{
		Tick:       c.ticks,
		UpdatedAt:  c.updatedAt,
		Revenue:    append([]RevenuePoint(nil), c.revenue...),
		Categories: append([]CategoryPoint(nil), c.categories...),
	}
}
