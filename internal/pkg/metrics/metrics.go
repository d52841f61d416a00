package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// IngestTotal counts processed tracking samples by outcome.
	IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetrack_ingest_total",
			Help: "Total number of tracking samples processed.",
		},
		[]string{"outcome", "source"}, // outcome: success/invalid/unknown_vehicle/error, source: http/mqtt/sim
	)

	// BroadcastSubscribers tracks the number of live change subscribers.
	BroadcastSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetrack_broadcast_subscribers",
			Help: "Current number of fleet state subscribers.",
		},
	)

	// BroadcastEvictedTotal counts subscribers dropped for lagging.
	BroadcastEvictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetrack_broadcast_evicted_total",
			Help: "Total number of subscribers evicted for not keeping up.",
		},
	)

	// SimTicksTotal counts simulation ticks by result.
	SimTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetrack_sim_ticks_total",
			Help: "Total number of simulation ticks.",
		},
		[]string{"result"}, // result: ok/fetch_failed/skipped
	)

	// SimCircuitOpen is 1 while the simulation circuit breaker is tripped.
	SimCircuitOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetrack_sim_circuit_open",
			Help: "Whether the simulation circuit breaker is open (1=open).",
		},
	)
)

func init() {
	prometheus.MustRegister(IngestTotal)
	prometheus.MustRegister(BroadcastSubscribers)
	prometheus.MustRegister(BroadcastEvictedTotal)
	prometheus.MustRegister(SimTicksTotal)
	prometheus.MustRegister(SimCircuitOpen)
}
