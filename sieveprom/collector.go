// Package sieveprom exports sieve cache statistics as Prometheus metrics.
package sieveprom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bjaus/sieve"
)

// Source is a cache that reports statistics. Both *sieve.Bounded and
// *sieve.TTL implement it.
type Source interface {
	Stats() sieve.Snapshot
	Len() int
}

// Collector is a prometheus.Collector reading a Source on every scrape.
type Collector struct {
	src Source

	entries        *prometheus.Desc
	hits           *prometheus.Desc
	misses         *prometheus.Desc
	evictions      *prometheus.Desc
	expirations    *prometheus.Desc
	skippedTouches *prometheus.Desc
	loads          *prometheus.Desc
	loadErrors     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector for src. Every metric carries a constant
// "cache" label set to name, so several caches can share one registry.
func NewCollector(namespace, name string, src Source) *Collector {
	labels := prometheus.Labels{"cache": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cache", metric), help, nil, labels)
	}

	return &Collector{
		src:            src,
		entries:        desc("entries", "Number of entries currently stored"),
		hits:           desc("hits_total", "Total number of lookups that found a live entry"),
		misses:         desc("misses_total", "Total number of lookups that found nothing or an expired entry"),
		evictions:      desc("evictions_total", "Total number of entries evicted to make room"),
		expirations:    desc("expirations_total", "Total number of expired entries removed on read"),
		skippedTouches: desc("skipped_touches_total", "Total number of hits not recorded because the evictor was busy"),
		loads:          desc("loads_total", "Total number of loader calls"),
		loadErrors:     desc("load_errors_total", "Total number of failed loader calls"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.skippedTouches
	ch <- c.loads
	ch <- c.loadErrors
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.src.Len()))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(s.Expirations))
	ch <- prometheus.MustNewConstMetric(c.skippedTouches, prometheus.CounterValue, float64(s.SkippedTouches))
	ch <- prometheus.MustNewConstMetric(c.loads, prometheus.CounterValue, float64(s.Loads))
	ch <- prometheus.MustNewConstMetric(c.loadErrors, prometheus.CounterValue, float64(s.LoadErrors))
}
