package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/backend/pkg/random"
)

func newTestResponder(t *testing.T, opts ...Option) *Responder {
	t.Helper()
	r, err := NewResponder(random.New(1), opts...)
	require.NoError(t, err)
	return r
}

func responseFor(t *testing.T, name string) string {
	t.Helper()
	for _, topic := range DefaultTopics() {
		if topic.Name == name {
			return topic.Response
		}
	}
	t.Fatalf("unknown topic %s", name)
	return ""
}

func TestAnswerMatching(t *testing.T) {
	r := newTestResponder(t)

	tests := []struct {
		name     string
		question string
		topic    string
	}{
		{name: "revenue", question: "What about revenue this month?", topic: "revenue"},
		{name: "sales keyword", question: "how were SALES last week", topic: "revenue"},
		{name: "customers", question: "How are my customers doing?", topic: "customers"},
		{name: "user keyword", question: "active USER count", topic: "customers"},
		{name: "inventory", question: "Is inventory running low?", topic: "inventory"},
		{name: "stock keyword", question: "stockout risk", topic: "inventory"},
		{name: "performance", question: "overall performance", topic: "performance"},
		{name: "metric keyword", question: "which metrics moved", topic: "performance"},
		{name: "first match wins", question: "do customers drive revenue?", topic: "revenue"},
		{name: "empty", question: "", topic: ""},
		{name: "whitespace", question: "   \t\n", topic: ""},
		{name: "unrelated", question: "xyz random unrelated text", topic: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Answer(tt.question)
			assert.Equal(t, tt.topic, res.Topic)
			if tt.topic == "" {
				assert.False(t, res.Matched())
				assert.Equal(t, DefaultResponse, res.Response)
			} else {
				assert.Equal(t, responseFor(t, tt.topic), res.Response)
			}
			assert.Len(t, res.Suggestions, 3)
			assert.NotEmpty(t, res.ID)
		})
	}
}

func TestConfidenceRange(t *testing.T) {
	r := newTestResponder(t)
	seen := map[int]bool{}

	for i := 0; i < 1000; i++ {
		c := r.Answer("revenue").Confidence
		require.GreaterOrEqual(t, c, 80)
		require.LessOrEqual(t, c, 100)
		seen[c] = true
	}
	assert.Greater(t, len(seen), 10)
}

func TestConfidenceExtremes(t *testing.T) {
	low, err := NewResponder(random.NewScripted(0))
	require.NoError(t, err)
	assert.Equal(t, 80, low.Answer("").Confidence)

	high, err := NewResponder(random.NewScripted(0.999))
	require.NoError(t, err)
	assert.Equal(t, 100, high.Answer("").Confidence)
}

func TestNewResponderValidation(t *testing.T) {
	_, err := NewResponder(random.New(1), WithConfidenceRange(90, 80))
	assert.Error(t, err)

	_, err = NewResponder(random.New(1), WithTopics([]Topic{{Name: "empty"}}))
	assert.Error(t, err)
}

func TestCustomTopicsAreCaseInsensitive(t *testing.T) {
	r := newTestResponder(t,
		WithTopics([]Topic{{Name: "churn", Keywords: []string{"Churn"}, Response: "churn answer"}}),
		WithFallback("nothing"),
	)

	assert.Equal(t, "churn answer", r.Answer("CHURN rate?").Response)
	assert.Equal(t, "nothing", r.Answer("revenue").Response)
}

func TestAnswerTimestampUsesClock(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	r := newTestResponder(t, WithClock(func() time.Time { return at }))

	assert.Equal(t, at.UTC(), r.Answer("q").Timestamp)
}

func TestSuggestionsAreCopied(t *testing.T) {
	r := newTestResponder(t)
	res := r.Answer("q")
	res.Suggestions[0] = "changed"

	assert.Equal(t, DefaultSuggestions(), r.Answer("q").Suggestions)
}

func TestAnswerAfter(t *testing.T) {
	r := newTestResponder(t)

	res, err := r.AnswerAfter(context.Background(), "revenue", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "revenue", res.Topic)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.AnswerAfter(ctx, "revenue", time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestDecodeQuestion(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "string", body: `{"question":"What about revenue?"}`, want: "What about revenue?"},
		{name: "with context", body: `{"question":"hi","context":{"page":"dashboard"}}`, want: "hi"},
		{name: "empty string", body: `{"question":""}`, want: ""},
		{name: "missing", body: `{}`, wantErr: true},
		{name: "null", body: `{"question":null}`, wantErr: true},
		{name: "number", body: `{"question":42}`, wantErr: true},
		{name: "object", body: `{"question":{"text":"revenue"}}`, wantErr: true},
		{name: "not json", body: `question=revenue`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeQuestion([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryCounterAndStats(t *testing.T) {
	ctx := context.Background()
	r := newTestResponder(t)
	c := NewMemoryCounter()

	for _, q := range []string{"revenue", "sales", "customers", "???"} {
		require.NoError(t, c.Increment(ctx, CounterKey(r.Answer(q))))
	}

	counts, err := c.Counts(ctx)
	require.NoError(t, err)
	stats := Stats(r.Topics(), counts)

	require.Len(t, stats, 5)
	assert.Equal(t, TopicStat{Name: "revenue", Keywords: []string{"revenue", "sales"}, Hits: 2}, stats[0])
	assert.Equal(t, int64(1), stats[1].Hits)
	assert.Equal(t, int64(0), stats[2].Hits)
	assert.Equal(t, FallbackTopic, stats[4].Name)
	assert.Equal(t, int64(1), stats[4].Hits)

	require.NoError(t, c.Reset(ctx))
	counts, err = c.Counts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Insights, 3)
	assert.Len(t, c.Recommendations, 3)
	assert.Len(t, c.Anomalies, 2)
	assert.Len(t, c.Predictions, 3)
	require.Len(t, c.Forecast, 7)
	assert.NotNil(t, c.Forecast[3].Actual)
	assert.Nil(t, c.Forecast[4].Actual)
}
