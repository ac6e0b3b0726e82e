package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/schedule-conflicts/internal/scheduler"
)

// PromRecorder records conflict analysis runs in Prometheus metrics.
type PromRecorder struct {
	runs     *prometheus.CounterVec
	clusters *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPromRecorder registers the analysis metrics on reg. If reg is nil, the
// default registerer is used. Collectors that are already registered are
// reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	runs, err := registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_runs_total",
		Help: "Number of conflict detection passes per resource kind",
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	clusters, err := registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_clusters_total",
		Help: "Number of conflict clusters found per resource kind",
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	dropped, err := registerCounter(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_entries_dropped_total",
		Help: "Number of meetings dropped during ingestion",
	}, []string{"reason"}))
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conflict_analysis_duration_seconds",
		Help:    "Time spent producing conflict reports and grids",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	if err := reg.Register(duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}

	return &PromRecorder{runs: runs, clusters: clusters, dropped: dropped, duration: duration}, nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		return are.ExistingCollector.(*prometheus.CounterVec), nil
	}
	return c, nil
}

// RecordRun counts one detection pass for kind and the clusters it produced.
func (r *PromRecorder) RecordRun(kind scheduler.Kind, clusters int) {
	r.runs.WithLabelValues(string(kind)).Inc()
	r.clusters.WithLabelValues(string(kind)).Add(float64(clusters))
}

// RecordDropped adds count dropped meetings under reason.
func (r *PromRecorder) RecordDropped(reason scheduler.DropReason, count int) {
	if count <= 0 {
		return
	}
	r.dropped.WithLabelValues(string(reason)).Add(float64(count))
}

// ObserveDuration records how long an operation took.
func (r *PromRecorder) ObserveDuration(operation string, elapsed time.Duration) {
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
