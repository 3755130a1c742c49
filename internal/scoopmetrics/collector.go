// Package scoopmetrics exposes a prometheus.Collector over live download
// and bucket-pull counters: a set of *prometheus.Desc fields
// populated from a closure over a small stats interface, collecting
// download/pull activity rather than connection-pool gauges.
package scoopmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stats is the snapshot Collector reads on every scrape. *Counters (or
// any in-process aggregator) implements it by tracking the relevant
// counters as operations happen.
type Stats interface {
	DownloadsInFlight() int64
	BytesDownloaded() int64
	DownloadFailures() int64
	PullsTotal() int64
	PullFailures() int64
}

type staterFunc func() Stats

// Collector reports download and bucket-pull activity as prometheus
// metrics.
type Collector struct {
	name  string
	stats staterFunc

	downloadsInFlightDesc *prometheus.Desc
	bytesDownloadedDesc   *prometheus.Desc
	downloadFailuresDesc  *prometheus.Desc
	pullsTotalDesc        *prometheus.Desc
	pullFailuresDesc      *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

var staticLabels = []string{"context"}

// NewCollector builds a Collector that reads from stats on every scrape,
// labeling every metric with name (the context root, e.g. "user" or
// "global") to disambiguate user vs. global contexts scraped from the
// same process.
func NewCollector(stats Stats, name string) *Collector {
	return newCollector(func() Stats { return stats }, name)
}

func newCollector(fn staterFunc, name string) *Collector {
	return &Collector{
		name:  name,
		stats: fn,
		downloadsInFlightDesc: prometheus.NewDesc(
			"gscoop_downloads_in_flight",
			"Number of downloads currently streaming into the cache.",
			staticLabels, nil),
		bytesDownloadedDesc: prometheus.NewDesc(
			"gscoop_bytes_downloaded_total",
			"Cumulative bytes written to cache files.",
			staticLabels, nil),
		downloadFailuresDesc: prometheus.NewDesc(
			"gscoop_download_failures_total",
			"Cumulative count of downloads that failed (request error, non-2xx status, or file write error).",
			staticLabels, nil),
		pullsTotalDesc: prometheus.NewDesc(
			"gscoop_bucket_pulls_total",
			"Cumulative count of bucket pull operations attempted.",
			staticLabels, nil),
		pullFailuresDesc: prometheus.NewDesc(
			"gscoop_bucket_pull_failures_total",
			"Cumulative count of bucket pull operations that failed.",
			staticLabels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.downloadsInFlightDesc, prometheus.GaugeValue, float64(s.DownloadsInFlight()), c.name)
	ch <- prometheus.MustNewConstMetric(c.bytesDownloadedDesc, prometheus.CounterValue, float64(s.BytesDownloaded()), c.name)
	ch <- prometheus.MustNewConstMetric(c.downloadFailuresDesc, prometheus.CounterValue, float64(s.DownloadFailures()), c.name)
	ch <- prometheus.MustNewConstMetric(c.pullsTotalDesc, prometheus.CounterValue, float64(s.PullsTotal()), c.name)
	ch <- prometheus.MustNewConstMetric(c.pullFailuresDesc, prometheus.CounterValue, float64(s.PullFailures()), c.name)
}
