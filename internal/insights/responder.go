// Package insights answers free-text dashboard questions from a fixed table
// of keyword topics.
package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/backend/pkg/random"
)

type Result struct {
	ID          string    `json:"-"`
	Topic       string    `json:"-"`
	Response    string    `json:"response"`
	Confidence  int       `json:"confidence"`
	Timestamp   time.Time `json:"timestamp"`
	Suggestions []string  `json:"suggestions"`
}

// Matched reports whether a topic answered rather than the fallback.
func (r Result) Matched() bool { return r.Topic != "" }

type Responder struct {
	topics        []Topic
	fallback      string
	suggestions   []string
	minConfidence int
	maxConfidence int
	src           random.Source
	now           func() time.Time
}

type Option func(*Responder)

func WithTopics(topics []Topic) Option {
	return func(r *Responder) { r.topics = topics }
}

func WithFallback(text string) Option {
	return func(r *Responder) { r.fallback = text }
}

func WithConfidenceRange(min, max int) Option {
	return func(r *Responder) {
		r.minConfidence = min
		r.maxConfidence = max
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

func NewResponder(src random.Source, opts ...Option) (*Responder, error) {
	r := &Responder{
		topics:        DefaultTopics(),
		fallback:      DefaultResponse,
		suggestions:   DefaultSuggestions(),
		minConfidence: 80,
		maxConfidence: 100,
		src:           src,
		now:           time.Now,
	}
	for _, o := range opts {
		o(r)
	}

	if r.minConfidence > r.maxConfidence {
		return nil, fmt.Errorf("confidence range [%d, %d] is empty", r.minConfidence, r.maxConfidence)
	}

	topics := make([]Topic, len(r.topics))
	for i, t := range r.topics {
		if len(t.Keywords) == 0 {
			return nil, fmt.Errorf("topic %q has no keywords", t.Name)
		}
		kw := make([]string, len(t.Keywords))
		for j, k := range t.Keywords {
			kw[j] = strings.ToLower(k)
		}
		t.Keywords = kw
		topics[i] = t
	}
	r.topics = topics

	return r, nil
}

// Topics returns the topic table in priority order.
func (r *Responder) Topics() []Topic {
	return append([]Topic(nil), r.topics...)
}

// Match returns the first topic with a keyword contained in question.
// Blank questions never match.
func (r *Responder) Match(question string) (Topic, bool) {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return Topic{}, false
	}
	for _, t := range r.topics {
		for _, k := range t.Keywords {
			if strings.Contains(q, k) {
				return t, true
			}
		}
	}
	return Topic{}, false
}

func (r *Responder) Answer(question string) Result {
	res := Result{
		ID:          uuid.New().String(),
		Response:    r.fallback,
		Confidence:  r.minConfidence + r.src.IntN(r.maxConfidence-r.minConfidence+1),
		Timestamp:   r.now().UTC(),
		Suggestions: append([]string(nil), r.suggestions...),
	}
	if t, ok := r.Match(question); ok {
		res.Topic = t.Name
		res.Response = t.Response
	}
	return res
}

// AnswerAfter waits delay, like the analysis it stands in for, then answers.
// If ctx ends first the error wraps both ErrInternal and ctx's error.
func (r *Responder) AnswerAfter(ctx context.Context, question string, delay time.Duration) (Result, error) {
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Result{}, fmt.Errorf("%w: %w", ErrInternal, ctx.Err())
		case <-t.C:
		}
	}
	return r.Answer(question), nil
}
