package sql

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

const TotalBlockCountQuery = `SELECT COUNT(*) FROM chain.blocks`

// TotalBlockCountCollector is a Prometheus collector that counts the blocks
// persisted in the PostgreSQL backend, independently of the in-process view.
type TotalBlockCountCollector struct {
	db              *sql.DB
	totalBlockCount *prometheus.Desc
}

func NewTotalBlockCountCollector(db *sql.DB) *TotalBlockCountCollector {
	return &TotalBlockCountCollector{
		db: db,
		totalBlockCount: prometheus.NewDesc(
			prometheus.BuildFQName("monochain", "blocks", "total_count"),
			"Total persisted block count",
			nil,
			prometheus.Labels{"source": "postgres"},
		),
	}
}

func (c *TotalBlockCountCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalBlockCount
}

func (c *TotalBlockCountCollector) Collect(ch chan<- prometheus.Metric) {
	var count int64
	err := c.db.QueryRow(TotalBlockCountQuery).Scan(&count)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.totalBlockCount, err)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.totalBlockCount, prometheus.CounterValue, float64(count))
}
