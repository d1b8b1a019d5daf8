// ABOUTME: Prometheus recorder for per-keyword fetch outcomes
// ABOUTME: Uses a private registry and writes node_exporter textfile output after a run

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements the Metrics interface with prometheus collectors
type Recorder struct {
	registry *prometheus.Registry
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
	ads      prometheus.Counter
	lastRun  prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adtracker_keyword_fetches_total",
			Help: "Keyword fetches by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "adtracker_fetch_duration_seconds",
			Help:    "Time spent fetching ads for one keyword",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adtracker_ads_found_total",
			Help: "Ads found across all fetched keywords",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adtracker_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		}),
	}
	r.registry.MustRegister(r.fetches, r.duration, r.ads, r.lastRun)
	return r
}

// ObserveFetch records one keyword fetch
func (r *Recorder) ObserveFetch(outcome string, duration time.Duration, ads int) {
	r.fetches.WithLabelValues(outcome).Inc()
	if duration > 0 {
		r.duration.Observe(duration.Seconds())
	}
	if ads > 0 {
		r.ads.Add(float64(ads))
	}
}

// MarkRunComplete stamps the last run gauge
func (r *Recorder) MarkRunComplete(at time.Time) {
	r.lastRun.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry for gathering
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in text exposition format to path.
// The file is written atomically so a collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
