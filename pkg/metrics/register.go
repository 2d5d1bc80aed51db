package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var registerMetrics sync.Once

const (
	PMNamespace = "dsp"
	PMSubsystem = "pm_runtime"
)

var (
	// UsageCount is the reference count of every (context, index) pair
	UsageCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: PMNamespace,
			Subsystem: PMSubsystem,
			Name:      "usage_count",
			Help:      "0 = gated, >0 = number of holders keeping the domain enabled",
		}, []string{"platform", "context", "index"})

	// Transitions counts hardware sequences run on count edges
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: PMNamespace,
			Subsystem: PMSubsystem,
			Name:      "transitions_total",
			Help:      "direction: up = 0->1 enable sequence, down = 1->0 disable sequence",
		}, []string{"platform", "context", "index", "direction"})

	// SequenceErrors counts rejected calls and failed hardware sequences
	SequenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: PMNamespace,
			Subsystem: PMSubsystem,
			Name:      "errors_total",
			Help:      "reason: out_of_range, unbalanced, unsupported, busy, sequence",
		}, []string{"platform", "context", "reason"})

	// D0InhibitRefs is the number of holders preventing DSP power gating
	D0InhibitRefs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: PMNamespace,
			Subsystem: PMSubsystem,
			Name:      "d0_inhibit_refs",
			Help:      ">0 = DSP must stay in D0",
		}, []string{"platform"})

	// PowerOffs counts bulk memory power-off calls
	PowerOffs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: PMNamespace,
			Subsystem: PMSubsystem,
			Name:      "power_off_total",
			Help:      "bulk HPSRAM power-off calls",
		}, []string{"platform"})
)

// RegisterMetrics registers all the metrics with Prometheus
func RegisterMetrics() {
	registerMetrics.Do(func() {
		prometheus.MustRegister(UsageCount)
		prometheus.MustRegister(Transitions)
		prometheus.MustRegister(SequenceErrors)
		prometheus.MustRegister(D0InhibitRefs)
		prometheus.MustRegister(PowerOffs)
		// The daemon is polled by node-level scrapers, process stats are noise
		prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prometheus.Unregister(collectors.NewGoCollector())
	})
}
