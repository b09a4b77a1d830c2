package metrics

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Collector hands out named instruments. Instruments with the same name
// share state.
type Collector interface {
	Counter(name string) Counter
	Gauge(name string) Gauge
	Timer(name string) Timer

	Export() []Sample
}

type Counter interface {
	Inc()
	Add(delta uint64)
	Value() uint64
}

type Gauge interface {
	Set(value float64)
	Value() float64
}

// Timer records durations and keeps count, total and max.
type Timer interface {
	Observe(d time.Duration)
	Count() uint64
	Mean() time.Duration
	Max() time.Duration
}

// Sample is one exported instrument value.
type Sample struct {
	Name  string
	Kind  string
	Value float64
}

// Registry is an in-process Collector backed by atomics. Safe for
// concurrent use.
type Registry struct {
	mu       sync.Mutex
	counters map[string]*counter
	gauges   map[string]*gauge
	timers   map[string]*timer
}

func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*counter),
		gauges:   make(map[string]*gauge),
		timers:   make(map[string]*timer),
	}
}

func (r *Registry) Counter(name string) Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[name]
	if !ok {
		c = &counter{}
		r.counters[name] = c
	}
	return c
}

func (r *Registry) Gauge(name string) Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gauges[name]
	if !ok {
		g = &gauge{}
		r.gauges[name] = g
	}
	return g
}

func (r *Registry) Timer(name string) Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[name]
	if !ok {
		t = &timer{}
		r.timers[name] = t
	}
	return t
}

func (r *Registry) Export() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()

	samples := make([]Sample, 0, len(r.counters)+len(r.gauges)+len(r.timers))
	for name, c := range r.counters {
		samples = append(samples, Sample{Name: name, Kind: "counter", Value: float64(c.Value())})
	}
	for name, g := range r.gauges {
		samples = append(samples, Sample{Name: name, Kind: "gauge", Value: g.Value()})
	}
	for name, t := range r.timers {
		samples = append(samples, Sample{Name: name, Kind: "timer_mean_ns", Value: float64(t.Mean())})
	}
	return samples
}

type counter struct {
	v atomic.Uint64
}

func (c *counter) Inc()          { c.v.Add(1) }
func (c *counter) Add(d uint64)  { c.v.Add(d) }
func (c *counter) Value() uint64 { return c.v.Load() }

type gauge struct {
	bits atomic.Uint64
}

func (g *gauge) Set(v float64)  { g.bits.Store(math.Float64bits(v)) }
func (g *gauge) Value() float64 { return math.Float64frombits(g.bits.Load()) }

type timer struct {
	count atomic.Uint64
	total atomic.Int64
	max   atomic.Int64
}

func (t *timer) Observe(d time.Duration) {
	t.count.Add(1)
	t.total.Add(int64(d))
	for {
		cur := t.max.Load()
		if int64(d) <= cur || t.max.CompareAndSwap(cur, int64(d)) {
			return
		}
	}
}

func (t *timer) Count() uint64 { return t.count.Load() }

func (t *timer) Mean() time.Duration {
	n := t.count.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(t.total.Load() / int64(n))
}

func (t *timer) Max() time.Duration { return time.Duration(t.max.Load()) }

// Nop discards everything. Useful as a default.
type Nop struct{}

func (Nop) Counter(string) Counter { return nopCounter{} }
func (Nop) Gauge(string) Gauge     { return nopGauge{} }
func (Nop) Timer(string) Timer     { return nopTimer{} }
func (Nop) Export() []Sample       { return nil }

type nopCounter struct{}

func (nopCounter) Inc()          {}
func (nopCounter) Add(uint64)    {}
func (nopCounter) Value() uint64 { return 0 }

type nopGauge struct{}

func (nopGauge) Set(float64)    {}
func (nopGauge) Value() float64 { return 0 }

type nopTimer struct{}

func (nopTimer) Observe(time.Duration) {}
func (nopTimer) Count() uint64         { return 0 }
func (nopTimer) Mean() time.Duration   { return 0 }
func (nopTimer) Max() time.Duration    { return 0 }
