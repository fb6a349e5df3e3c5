// Package metrics records the outcome of a publish run in a per-run
// Prometheus registry that can be written out for node_exporter's textfile
// collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "playpublisher"

// Recorder holds the metrics of a single publish run. The zero value is not
// usable; create one with New.
type Recorder struct {
	registry *prometheus.Registry

	stepTotal    *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	versionCode  prometheus.Gauge
	success      prometheus.Gauge
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "step_total",
				Help:      "Publish steps executed by step and outcome",
			},
			[]string{"step", "outcome"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Publish step duration in seconds",
				Buckets:   []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"step"},
		),
		versionCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "version_code",
			Help:      "Version code assigned to the uploaded binary",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publish_success",
			Help:      "1 if the last publish run committed its edit, 0 otherwise",
		}),
	}
	r.registry.MustRegister(r.stepTotal, r.stepDuration, r.versionCode, r.success)
	return r
}

// ObserveStep records one executed publish step.
func (r *Recorder) ObserveStep(step string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.stepTotal.WithLabelValues(step, outcome).Inc()
	r.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// SetVersionCode records the version code assigned by the service.
func (r *Recorder) SetVersionCode(code int64) {
	r.versionCode.Set(float64(code))
}

// SetSuccess records whether the run committed.
func (r *Recorder) SetSuccess(ok bool) {
	if ok {
		r.success.Set(1)
		return
	}
	r.success.Set(0)
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
