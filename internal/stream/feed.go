package stream

// Feed pairs a dashboard's metric and chart streams and publishes a Frame to
// its hub after every refresh.
type Feed struct {
	Metrics *MetricStream
	Charts  *ChartStream

	hub       *Hub
	onRefresh func(kind string, f Frame)
}

type FeedOption func(*Feed)

// OnRefresh registers a hook called after each refresh with "metrics",
// "charts" or "all".
func OnRefresh(fn func(kind string, f Frame)) FeedOption {
	return func(f *Feed) { f.onRefresh = fn }
}

func NewFeed(metrics *MetricStream, charts *ChartStream, hub *Hub, opts ...FeedOption) *Feed {
	f := &Feed{Metrics: metrics, Charts: charts, hub: hub}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Feed) Hub() *Hub { return f.hub }

func (f *Feed) Frame() Frame {
	return Frame{Metrics: f.Metrics.Snapshot(), Charts: f.Charts.Snapshot()}
}

func (f *Feed) RefreshMetrics() Frame {
	fr := Frame{Metrics: f.Metrics.Tick(), Charts: f.Charts.Snapshot()}
	f.publish("metrics", fr)
	return fr
}

func (f *Feed) RefreshCharts() Frame {
	fr := Frame{Metrics: f.Metrics.Snapshot(), Charts: f.Charts.Tick()}
	f.publish("charts", fr)
	return fr
}

// Refresh ticks both streams, as the dashboard's manual refresh does.
func (f *Feed) Refresh() Frame {
	fr := Frame{Metrics: f.Metrics.Tick(), Charts: f.Charts.Tick()}
	f.publish("all", fr)
	return fr
}

func (f *Feed) publish(kind string, fr Frame) {
	if f.hub != nil {
		f.hub.Publish(fr)
	}
	if f.onRefresh != nil {
		f.onRefresh(kind, fr)
	}
}
