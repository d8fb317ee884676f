package api

import (
	"net/http"

	"github.com/dmoura/eventgate/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts terminal activity for Prometheus scraping.
type Metrics struct {
	downloadRuns  *prometheus.CounterVec
	uploadRecords *prometheus.CounterVec
	quickCheckins *prometheus.CounterVec
}

// NewMetrics registers the terminal's counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		downloadRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_download_runs_total",
			Help: "Download synchronization runs by outcome.",
		}, []string{"outcome"}),
		uploadRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_upload_records_total",
			Help: "Records pushed during upload, by entity and outcome.",
		}, []string{"entity", "outcome"}),
		quickCheckins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_quick_checkins_total",
			Help: "Walk-up quick check-ins by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.downloadRuns, m.uploadRecords, m.quickCheckins)
	return m
}

func (m *Metrics) recordDownload(err error) {
	if err != nil {
		m.downloadRuns.WithLabelValues("failure").Inc()
		return
	}
	m.downloadRuns.WithLabelValues("success").Inc()
}

func (m *Metrics) recordUpload(res services.UploadResult) {
	add := func(entity string, synced, failed int) {
		m.uploadRecords.WithLabelValues(entity, "synced").Add(float64(synced))
		m.uploadRecords.WithLabelValues(entity, "failed").Add(float64(failed))
	}
	add("user", res.UsersSynced, res.UsersFailed)
	add("subscription", res.SubscriptionsSynced, res.SubscriptionsFailed)
	add("checkin", res.CheckinsSynced, res.CheckinsFailed)
}

func (m *Metrics) recordQuickCheckin(res services.QuickCheckinResult, err error) {
	switch {
	case err != nil:
		m.quickCheckins.WithLabelValues("failure").Inc()
	case res.AlreadyCheckedIn:
		m.quickCheckins.WithLabelValues("repeat").Inc()
	default:
		m.quickCheckins.WithLabelValues("created").Inc()
	}
}

// MetricsHandler exposes the registry for Prometheus scraping.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
