package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "transcribe"

// Failure stages.
const (
	StageDiscover   = "discover"
	StageTranscribe = "transcribe"
	StageWrite      = "write"
)

// Recorder collects per-run batch metrics on a private registry so a run can
// be dumped in textfile-collector format once it ends.
type Recorder struct {
	registry *prometheus.Registry

	discovered  prometheus.Gauge
	written     prometheus.Counter
	failures    *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
	lastRun     prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		discovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "files_discovered",
			Help:      "Media files found under the scan root in the last run.",
		}),
		written: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_written_total",
			Help:      "Transcript files written.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Batch failures by stage.",
		}, []string{"stage"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Time spent in a single transcription call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run finished without error.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	r.registry.MustRegister(r.discovered, r.written, r.failures, r.duration, r.lastSuccess, r.lastRun)
	return r
}

func (r *Recorder) SetDiscovered(n int) {
	r.discovered.Set(float64(n))
}

func (r *Recorder) ObserveTranscription(d time.Duration) {
	r.duration.Observe(d.Seconds())
}

func (r *Recorder) IncWritten() {
	r.written.Inc()
}

func (r *Recorder) IncFailure(stage string) {
	r.failures.WithLabelValues(stage).Inc()
}

// Finish stamps the run outcome.
func (r *Recorder) Finish(success bool) {
	if success {
		r.lastSuccess.Set(1)
	} else {
		r.lastSuccess.Set(0)
	}
	r.lastRun.SetToCurrentTime()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path for node_exporter's textfile
// collector. The write goes through a temp file and rename.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
