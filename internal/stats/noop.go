package stats

// Noop discards all metrics.
type Noop struct{}

var _ Collector = (*Noop)(nil)

// NewNoop creates a new no-op collector.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) IncCounter(string, int64)         {}
func (n *Noop) SetGauge(string, int64)           {}
func (n *Noop) ObserveHistogram(string, float64) {}

// Multi fans every observation out to several collectors.
type Multi []Collector

var _ Collector = Multi(nil)

// IncCounter increments name on every collector.
func (m Multi) IncCounter(name string, delta int64) {
	for _, c := range m {
		c.IncCounter(name, delta)
	}
}

// SetGauge sets name on every collector.
func (m Multi) SetGauge(name string, value int64) {
	for _, c := range m {
		c.SetGauge(name, value)
	}
}

// ObserveHistogram records value on every collector.
func (m Multi) ObserveHistogram(name string, value float64) {
	for _, c := range m {
		c.ObserveHistogram(name, value)
	}
}
