package stats

import "testing"

type recorder struct {
	counters map[string]int64
	gauges   map[string]int64
	observed []float64
}

func newRecorder() *recorder {
	return &recorder{counters: map[string]int64{}, gauges: map[string]int64{}}
}

func (r *recorder) IncCounter(name string, delta int64)  { r.counters[name] += delta }
func (r *recorder) SetGauge(name string, value int64)    { r.gauges[name] = value }
func (r *recorder) ObserveHistogram(_ string, v float64) { r.observed = append(r.observed, v) }

func TestMulti(t *testing.T) {
	a, b := newRecorder(), newRecorder()
	m := Multi{a, NewNoop(), b}

	m.IncCounter(MetricGamesProcessed, 2)
	m.IncCounter(MetricGamesProcessed, 1)
	m.SetGauge(MetricCacheSize, 7)
	m.ObserveHistogram(MetricExtractSeconds, 0.5)

	for i, r := range []*recorder{a, b} {
		if got := r.counters[MetricGamesProcessed]; got != 3 {
			t.Errorf("collector %d: counter = %d, want 3", i, got)
		}
		if got := r.gauges[MetricCacheSize]; got != 7 {
			t.Errorf("collector %d: gauge = %d, want 7", i, got)
		}
		if len(r.observed) != 1 {
			t.Errorf("collector %d: %d observations, want 1", i, len(r.observed))
		}
	}
}

func TestHelp(t *testing.T) {
	if got := Help(MetricGamesRejected); got == MetricGamesRejected {
		t.Errorf("Help(%q) fell back to the name", MetricGamesRejected)
	}
	if got := Help("custom_metric"); got != "custom_metric" {
		t.Errorf("Help(custom_metric) = %q", got)
	}
}
