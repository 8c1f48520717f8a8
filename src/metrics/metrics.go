package metrics

import (
	"tickq/src/scheduler"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports scheduler activity as Prometheus metrics. It implements
// scheduler.Observer and can be shared by many contexts.
type Collector struct {
	scheduled prometheus.Counter
	ticks     *prometheus.CounterVec
	backlog   prometheus.Gauge
	runners   prometheus.Gauge
}

var _ scheduler.Observer = (*Collector)(nil)

// Create a collector and register it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tickq",
			Name:      "scheduled_units_total",
			Help:      "Closures queued on a scheduler context.",
		}),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tickq",
			Name:      "ticks_total",
			Help:      "Scheduler ticks by result.",
		}, []string{"result"}),
		backlog: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tickq",
			Name:      "backlog_units",
			Help:      "Closures posted to task schedulers and not yet handed to their context.",
		}),
		runners: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tickq",
			Name:      "runners",
			Help:      "Task schedulers currently running.",
		}),
	}

	// Pre-create the series so that they show up before the first tick.
	for _, r := range []scheduler.TickResult{scheduler.Idle, scheduler.Stopped, scheduler.KeptGoing} {
		c.ticks.WithLabelValues(r.String())
	}

	reg.MustRegister(c.scheduled, c.ticks, c.backlog, c.runners)
	return c
}

func (c *Collector) Scheduled(units int) {
	c.scheduled.Add(float64(units))
}

func (c *Collector) Ticked(result scheduler.TickResult) {
	c.ticks.WithLabelValues(result.String()).Inc()
}

// AddBacklog adjusts the backlog gauge by delta.
func (c *Collector) AddBacklog(delta int) {
	c.backlog.Add(float64(delta))
}

// RunnerStarted and RunnerStopped track the number of live runners.
func (c *Collector) RunnerStarted() { c.runners.Inc() }

func (c *Collector) RunnerStopped() { c.runners.Dec() }
