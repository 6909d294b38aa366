// Package dashboard builds the one-shot dashboard data payload: headline
// metrics and chart series drawn fresh on every request.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/pulseboard/backend/pkg/random"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MetricIDs lists the payload's metrics in a stable order.
var MetricIDs = []string{"revenue", "users", "orders", "conversion"}

type Reading struct {
	Current float64 `json:"current"`
	Change  float64 `json:"change"`
	Trend   string  `json:"trend"`
}

type DayPoint struct {
	Day    string `json:"day"`
	Value  int    `json:"value"`
	Target int    `json:"target"`
}

type Category struct {
	Name   string  `json:"name"`
	Value  int     `json:"value"`
	Growth float64 `json:"growth"`
}

type Charts struct {
	Revenue    []DayPoint `json:"revenue"`
	Categories []Category `json:"categories"`
}

type Data struct {
	Metrics   map[string]Reading `json:"metrics"`
	Charts    Charts             `json:"charts"`
	Timestamp string             `json:"timestamp"`
}

// metricRange is current = floor(U*span)+base, change = (U-0.5)*changeSpan,
// trend up when U > upAbove.
type metricRange struct {
	id         string
	span, base float64
	changeSpan float64
	upAbove    float64
	decimals   int
	integer    bool
}

var metricRanges = []metricRange{
	{id: "revenue", span: 10000, base: 40000, changeSpan: 40, upAbove: 0.5, integer: true},
	{id: "users", span: 500, base: 2000, changeSpan: 30, upAbove: 0.6, integer: true},
	{id: "orders", span: 200, base: 1000, changeSpan: 20, upAbove: 0.4, integer: true},
	{id: "conversion", span: 2, base: 2, changeSpan: 10, upAbove: 0.5, decimals: 2},
}

type categoryRange struct {
	name       string
	span, base int
	growthSpan float64
}

var categoryRanges = []categoryRange{
	{name: "Electronics", span: 200, base: 300, growthSpan: 20},
	{name: "Clothing", span: 150, base: 250, growthSpan: 15},
	{name: "Home", span: 100, base: 150, growthSpan: 10},
	{name: "Beauty", span: 80, base: 80, growthSpan: 12},
}

const (
	chartDays  = 7
	valueSpan  = 5000
	valueBase  = 3000
	targetSpan = 1000
	targetBase = 4000
)

type Generator struct {
	src random.Source
	now func() time.Time
}

func NewGenerator(src random.Source, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{src: src, now: now}
}

// Generate draws a new payload. Trends are drawn independently of the
// change sign, with a per-metric bias.
func (g *Generator) Generate() Data {
	metrics := make(map[string]Reading, len(metricRanges))
	for _, r := range metricRanges {
		metrics[r.id] = g.reading(r)
	}

	revenue := make([]DayPoint, chartDays)
	for i := range revenue {
		revenue[i] = DayPoint{
			Day:    fmt.Sprintf("Day %d", i+1),
			Value:  g.src.IntN(valueSpan) + valueBase,
			Target: g.src.IntN(targetSpan) + targetBase,
		}
	}

	categories := make([]Category, len(categoryRanges))
	for i, r := range categoryRanges {
		categories[i] = Category{
			Name:   r.name,
			Value:  g.src.IntN(r.span) + r.base,
			Growth: (g.src.Float64() - 0.5) * r.growthSpan,
		}
	}

	return Data{
		Metrics:   metrics,
		Charts:    Charts{Revenue: revenue, Categories: categories},
		Timestamp: g.now().UTC().Format(TimestampLayout),
	}
}

func (g *Generator) reading(r metricRange) Reading {
	current := g.src.Float64()*r.span + r.base
	if r.integer {
		current = math.Floor(current)
	} else {
		p := math.Pow(10, float64(r.decimals))
		current = math.Round(current*p) / p
	}

	change := (g.src.Float64() - 0.5) * r.changeSpan

	trend := "down"
	if g.src.Float64() > r.upAbove {
		trend = "up"
	}

	return Reading{Current: current, Change: change, Trend: trend}
}
