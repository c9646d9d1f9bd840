package typepick

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome etiket değerleri.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics, her Execute/Query çağrısının sonucunu kaydeder.
type Metrics interface {
	Observe(kind QueryKind, outcome string, d time.Duration)
}

// NopMetrics hiçbir şey kaydetmez.
type NopMetrics struct{}

// Observe, gözlemi yok sayar.
func (NopMetrics) Observe(QueryKind, string, time.Duration) {}

// PrometheusMetrics, cümle sürelerini histogramda ve sonuçları sayaçta tutar.
type PrometheusMetrics struct {
	duration   *prometheus.HistogramVec
	statements *prometheus.CounterVec
}

// NewPrometheusMetrics, toplayıcıları oluşturur ve reg'e kaydeder.
// reg nil ise prometheus.DefaultRegisterer kullanılır.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "typepick",
			Name:      "statement_duration_seconds",
			Help:      "Duration of statements run through the builder, by query kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "typepick",
			Name:      "statements_total",
			Help:      "Statements run through the builder, by query kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.duration, m.statements} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe, süreyi ve sonucu kaydeder.
func (m *PrometheusMetrics) Observe(kind QueryKind, outcome string, d time.Duration) {
	label := kind.String()
	if label == "" {
		label = "none"
	}
	m.duration.WithLabelValues(label).Observe(d.Seconds())
	m.statements.WithLabelValues(label, outcome).Inc()
}
