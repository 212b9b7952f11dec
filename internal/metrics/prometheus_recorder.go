package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	pagesIndexed  prom.Counter
	records       prom.Counter
	collisions    prom.Counter
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		pagesIndexed: prom.NewCounter(prom.CounterOpts{
			Namespace: "docsearch",
			Name:      "pages_indexed_total",
			Help:      "Pages fed into the search index builder",
		}),
		records: prom.NewCounter(prom.CounterOpts{
			Namespace: "docsearch",
			Name:      "records_emitted_total",
			Help:      "Records emitted by the page normalizer",
		}),
		collisions: prom.NewCounter(prom.CounterOpts{
			Namespace: "docsearch",
			Name:      "location_collisions_total",
			Help:      "Records overwritten due to duplicate locations",
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsearch",
			Name:      "build_duration_seconds",
			Help:      "Total index build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsearch",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.pagesIndexed, pr.records, pr.collisions, pr.buildDuration, pr.buildOutcome)
	return pr
}

func (pr *PrometheusRecorder) IncPagesIndexed()         { pr.pagesIndexed.Inc() }
func (pr *PrometheusRecorder) AddRecordsEmitted(n int)  { pr.records.Add(float64(n)) }
func (pr *PrometheusRecorder) IncCollisionOverwritten() { pr.collisions.Inc() }
func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}
func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}
