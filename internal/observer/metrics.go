// Package observer holds the Prometheus metrics of the service.
package observer

import (
	"strconv"
	"time"

	"helpdesk-webhooks/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveryLabels = []string{"resource", "event"}

	DeliveriesReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_webhook_deliveries_received_total",
			Help: "Inbound deliveries that opened a log entry.",
		},
		deliveryLabels,
	)
	DeliveriesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_webhook_deliveries_processed_total",
			Help: "Deliveries finalized as processed.",
		},
		deliveryLabels,
	)
	DeliveriesFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_webhook_deliveries_failed_total",
			Help: "Deliveries finalized as failed.",
		},
		deliveryLabels,
	)
	DeliveriesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_webhook_deliveries_rejected_total",
			Help: "Deliveries refused before a log entry was opened.",
		},
		[]string{"reason"},
	)
	DeliveryProcessingDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helpdesk_webhook_delivery_processing_duration_seconds",
			Help:    "Time from log creation to finalization.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		deliveryLabels,
	)

	WebexRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_webex_requests_total",
			Help: "Outbound calls to the Webex REST API by operation and status code.",
		},
		[]string{"operation", "code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_http_requests_total",
			Help: "Handled HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helpdesk_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Rejection reasons.
const (
	RejectMissingSignature = "missing_signature"
	RejectBadSignature     = "bad_signature"
	RejectMalformed        = "malformed"
)

func IncDeliveryReceived(resource domain.Resource, event domain.Event) {
	DeliveriesReceivedTotal.WithLabelValues(sanitizeResource(resource), sanitizeEvent(event)).Inc()
}

// ObserveDeliveryFinalized counts the final status and records the duration.
func ObserveDeliveryFinalized(resource domain.Resource, event domain.Event, status domain.DeliveryStatus, d time.Duration) {
	r, e := sanitizeResource(resource), sanitizeEvent(event)
	switch status {
	case domain.DeliveryStatusProcessed:
		DeliveriesProcessedTotal.WithLabelValues(r, e).Inc()
	case domain.DeliveryStatusFailed:
		DeliveriesFailedTotal.WithLabelValues(r, e).Inc()
	}
	DeliveryProcessingDurationSeconds.WithLabelValues(r, e).Observe(d.Seconds())
}

func IncDeliveryRejected(reason string) {
	DeliveriesRejectedTotal.WithLabelValues(reason).Inc()
}

// IncWebexRequest records an outbound call. code 0 means a transport error.
func IncWebexRequest(operation string, code int) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	WebexRequestsTotal.WithLabelValues(operation, label).Inc()
}

func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

// Label values come from request bodies, so anything outside the known
// enumerations is folded into "other".
func sanitizeResource(r domain.Resource) string {
	if r.IsValid() {
		return string(r)
	}
	return "other"
}

func sanitizeEvent(e domain.Event) string {
	if e.IsValid() {
		return string(e)
	}
	return "other"
}
