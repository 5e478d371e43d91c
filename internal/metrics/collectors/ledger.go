package collectors

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerInfo is the view of the chain the collectors scrape.
type LedgerInfo interface {
	Length(ctx context.Context) (uint64, error)
	Difficulty() int
}

// LedgerCollector exposes the chain height and the active difficulty.
type LedgerCollector struct {
	ledger     LedgerInfo
	height     *prometheus.Desc
	difficulty *prometheus.Desc
}

func NewLedgerCollector(ledger LedgerInfo) *LedgerCollector {
	return &LedgerCollector{
		ledger: ledger,
		height: prometheus.NewDesc(
			prometheus.BuildFQName("monochain", "chain", "height"),
			"Number of blocks in the chain",
			nil,
			nil,
		),
		difficulty: prometheus.NewDesc(
			prometheus.BuildFQName("monochain", "chain", "difficulty"),
			"Active proof-of-work difficulty (leading zero hex characters)",
			nil,
			nil,
		),
	}
}

func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.height
	ch <- c.difficulty
}

func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	length, err := c.ledger.Length(context.Background())
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.height, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.height, prometheus.GaugeValue, float64(length))
	ch <- prometheus.MustNewConstMetric(c.difficulty, prometheus.GaugeValue, float64(c.ledger.Difficulty()))
}
