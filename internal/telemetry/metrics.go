// Package telemetry provides Prometheus metrics for schedule refreshes.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh outcomes used as the "result" label
const (
	ResultUpdated = "updated"
	ResultCleared = "cleared"
	ResultFailed  = "failed"
	ResultEmpty   = "empty"
)

var (
	once sync.Once

	// RefreshTotal counts schedule refreshes by result
	RefreshTotal *prometheus.CounterVec
	// CredentialFetchFailures counts failed credential endpoint fetches
	CredentialFetchFailures prometheus.Counter

	// RefreshDuration observes refresh wall time in seconds
	RefreshDuration prometheus.Observer

	SessionsGauge    prometheus.Gauge
	TimeSlotsGauge   prometheus.Gauge
	CredentialsGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "camp_schedule_refresh_total", Help: "Schedule refreshes by result"}, []string{"result"})
		CredentialFetchFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "camp_credentials_fetch_failures_total", Help: "Failed fetches of the room credentials endpoint"})
		RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "camp_schedule_refresh_duration_seconds", Help: "Schedule refresh duration seconds", Buckets: prometheus.DefBuckets})
		SessionsGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "camp_schedule_sessions", Help: "Sessions in the current snapshot"})
		TimeSlotsGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "camp_schedule_time_slots", Help: "Time slots in the current snapshot"})
		CredentialsGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "camp_credentials_rooms", Help: "Rooms with conferencing credentials"})
	})
}

// ObserveRefresh records one refresh outcome and its duration
func ObserveRefresh(result string, d time.Duration) {
	if RefreshTotal != nil {
		RefreshTotal.WithLabelValues(result).Inc()
	}
	if RefreshDuration != nil {
		RefreshDuration.Observe(d.Seconds())
	}
}

// SetSnapshotSize records the size of the snapshot now being served
func SetSnapshotSize(slots, sessions int) {
	if TimeSlotsGauge != nil {
		TimeSlotsGauge.Set(float64(slots))
	}
	if SessionsGauge != nil {
		SessionsGauge.Set(float64(sessions))
	}
}

// CredentialFetchFailed counts one failed fetch of the credentials endpoint
func CredentialFetchFailed() {
	if CredentialFetchFailures != nil {
		CredentialFetchFailures.Inc()
	}
}

// SetCredentialRooms records how many rooms have credentials
func SetCredentialRooms(n int) {
	if CredentialsGauge != nil {
		CredentialsGauge.Set(float64(n))
	}
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
