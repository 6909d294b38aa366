package insights

import (
	"context"
	"sync"
)

// FallbackTopic is the counter key for questions no topic matched.
const FallbackTopic = "default"

// Counter tallies how often each topic answered.
type Counter interface {
	Increment(ctx context.Context, topic string) error
	Counts(ctx context.Context) (map[string]int64, error)
	Reset(ctx context.Context) error
}

type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]int64)}
}

func (c *MemoryCounter) Increment(_ context.Context, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[topic]++
	return nil
}

func (c *MemoryCounter) Counts(_ context.Context) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out, nil
}

func (c *MemoryCounter) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int64)
	return nil
}

// TopicStat is one row of the topic statistics view.
type TopicStat struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Hits     int64    `json:"hits"`
}

// Stats joins the topic table with counts, fallback last.
func Stats(topics []Topic, counts map[string]int64) []TopicStat {
	out := make([]TopicStat, 0, len(topics)+1)
	for _, t := range topics {
		out = append(out, TopicStat{Name: t.Name, Keywords: t.Keywords, Hits: counts[t.Name]})
	}
	return append(out, TopicStat{Name: FallbackTopic, Keywords: []string{}, Hits: counts[FallbackTopic]})
}

// CounterKey is the topic key recorded for a result.
func CounterKey(r Result) string {
	if r.Matched() {
		return r.Topic
	}
	return FallbackTopic
}
