package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

var (
	// Logger is the structured logger for the observability plane itself.
	Logger *zap.Logger

	verdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_verdicts_total",
			Help: "Classification verdicts by outcome",
		},
		[]string{"verdict"},
	)

	warningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_private_warnings_total",
			Help: "Private warnings delivered to offenders",
		},
	)

	adminAlertsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_admin_alerts_total",
			Help: "Escalation alerts delivered to chat administrators",
		},
	)

	classifierFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_classifier_failures_total",
			Help: "Classifier degradations by kind",
		},
		[]string{"kind"},
	)

	classificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_classification_duration_seconds",
			Help:    "Time spent classifying messages",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

func Init(ctx context.Context, metricsAddr string) error {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	prometheus.MustRegister(verdictsTotal)
	prometheus.MustRegister(warningsTotal)
	prometheus.MustRegister(adminAlertsTotal)
	prometheus.MustRegister(classifierFailuresTotal)
	prometheus.MustRegister(classificationDuration)

	tp := trace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return nil
}

func RecordVerdict(verdict string) {
	verdictsTotal.WithLabelValues(verdict).Inc()
}

func RecordWarning() {
	warningsTotal.Inc()
}

func RecordAdminAlert() {
	adminAlertsTotal.Inc()
}

func RecordClassifierFailure(kind string) {
	classifierFailuresTotal.WithLabelValues(kind).Inc()
	if Logger != nil {
		Logger.Warn("classifier degradation", zap.String("kind", kind))
	}
}

// StartClassification returns a function recording the elapsed time under
// the given status label.
func StartClassification() func(status string) {
	timer := prometheus.NewTimer(nil)
	return func(status string) {
		classificationDuration.WithLabelValues(status).Observe(timer.ObserveDuration().Seconds())
	}
}
