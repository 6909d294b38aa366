// Package stream simulates the live dashboard feed: headline metrics and
// chart series that random-walk on every tick.
package stream

import (
	"sync"
	"time"

	"github.com/pulseboard/backend/pkg/random"
)

const (
	changeStep = 1.0
	valueStep  = 0.05
)

// Snapshot is an immutable copy of the metric set.
type Snapshot struct {
	Tick      uint64    `json:"tick"`
	UpdatedAt time.Time `json:"updatedAt"`
	Metrics   []Metric  `json:"metrics"`
}

// Get returns the metric with id.
func (s Snapshot) Get(id string) (Metric, bool) {
	for _, m := range s.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return Metric{}, false
}

// MetricStream owns a fixed set of metrics. Tick mutates them in place and
// Snapshot copies them out; no history is kept.
type MetricStream struct {
	mu        sync.RWMutex
	metrics   []Metric
	ticks     uint64
	updatedAt time.Time
	src       random.Source
	now       func() time.Time
}

type Option func(*MetricStream)

func WithClock(now func() time.Time) Option {
	return func(s *MetricStream) { s.now = now }
}

func NewMetricStream(src random.Source, seeds []Seed, opts ...Option) *MetricStream {
	s := &MetricStream{
		metrics: make([]Metric, 0, len(seeds)),
		src:     src,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	for _, seed := range seeds {
		s.metrics = append(s.metrics, seed.metric())
	}
	s.updatedAt = s.now()
	return s
}

// Tick applies one random-walk step to every metric. Per metric it draws the
// change step first, then the value step.
func (s *MetricStream) Tick() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.metrics {
		m := &s.metrics[i]
		m.Change += random.Symmetric(s.src, changeStep)
		m.Value = perturb(m.Kind, m.Value, random.Symmetric(s.src, valueStep), m.Floor)
		m.Trend = TrendOf(m.Change)
		m.Display = Format(m.Kind, m.Value)
	}
	s.ticks++
	s.updatedAt = s.now()

	return s.snapshotLocked()
}

func (s *MetricStream) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *MetricStream) snapshotLocked() Snapshot {
	out := make([]Metric, len(s.metrics))
	copy(out, s.metrics)
	return Snapshot{Tick: s.ticks, UpdatedAt: s.updatedAt, Metrics: out}
}
