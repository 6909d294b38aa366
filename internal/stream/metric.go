package stream

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind selects how a metric is perturbed and rendered.
type Kind string

const (
	KindCurrency   Kind = "currency"
	KindCount      Kind = "count"
	KindPercentage Kind = "percentage"
)

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// TrendOf is up for a non-negative change and down otherwise.
func TrendOf(change float64) Trend {
	if change >= 0 {
		return TrendUp
	}
	return TrendDown
}

type Metric struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Kind    Kind    `json:"kind"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Change  float64 `json:"change"`
	Trend   Trend   `json:"trend"`
	Floor   float64 `json:"-"`
}

// Seed describes a metric at startup.
type Seed struct {
	ID     string
	Label  string
	Kind   Kind
	Value  float64
	Change float64
	Trend  Trend
	Floor  float64
}

// DefaultSeeds are the four dashboard headline metrics.
func DefaultSeeds() []Seed {
	return []Seed{
		{ID: "revenue", Label: "Total Revenue", Kind: KindCurrency, Value: 45231.89, Change: 20.1, Trend: TrendUp, Floor: 0.01},
		{ID: "users", Label: "Active Users", Kind: KindCount, Value: 2350, Change: 15.3, Trend: TrendUp},
		{ID: "orders", Label: "Orders", Kind: KindCount, Value: 1234, Change: -5.2, Trend: TrendDown},
		{ID: "conversion", Label: "Conversion Rate", Kind: KindPercentage, Value: 3.24, Change: 8.7, Trend: TrendUp},
	}
}

func (s Seed) metric() Metric {
	m := Metric{
		ID:     s.ID,
		Label:  s.Label,
		Kind:   s.Kind,
		Value:  math.Max(s.Value, s.Floor),
		Change: s.Change,
		Trend:  s.Trend,
		Floor:  s.Floor,
	}
	if m.Trend == "" {
		m.Trend = TrendNeutral
	}
	m.Display = Format(m.Kind, m.Value)
	return m
}

// perturb scales value by (1+delta) the way the metric's display format
// demands, then clamps to floor.
func perturb(kind Kind, value, delta, floor float64) float64 {
	v := value * (1 + delta)
	switch kind {
	case KindCurrency, KindPercentage:
		v = math.Round(v*100) / 100
	case KindCount:
		v = math.Floor(v)
	}
	if v < floor {
		v = floor
	}
	return v
}

// Format renders a value for display: $45,231.89, 2,350 or 3.24%.
func Format(kind Kind, value float64) string {
	p := message.NewPrinter(language.English)
	switch kind {
	case KindCurrency:
		return p.Sprintf("$%.2f", value)
	case KindCount:
		return p.Sprintf("%d", int64(value))
	case KindPercentage:
		return p.Sprintf("%.2f%%", value)
	default:
		return p.Sprintf("%v", value)
	}
}
