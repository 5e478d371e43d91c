package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// BlocksMined counts blocks successfully mined and appended.
	BlocksMined = prometheus.NewCounter(prometheus.CounterOpts{
		Name: prometheus.BuildFQName("monochain", "mining", "blocks_total"),
		Help: "Total number of blocks mined and appended to the chain",
	})

	// MiningAttempts counts nonce candidates tried during successful mining.
	MiningAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: prometheus.BuildFQName("monochain", "mining", "attempts_total"),
		Help: "Total number of nonce candidates hashed while mining",
	})

	// MiningDuration observes how long each successful mining search took.
	MiningDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName("monochain", "mining", "duration_seconds"),
		Help:    "Duration of successful proof-of-work searches",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
)

func minerCollectors() []prometheus.Collector {
	return []prometheus.Collector{BlocksMined, MiningAttempts, MiningDuration}
}
