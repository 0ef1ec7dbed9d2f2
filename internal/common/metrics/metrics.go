// internal/common/metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PortalActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_actions_total",
			Help: "Total number of portal actions handled, by outcome",
		},
		[]string{"task_type", "outcome"},
	)

	PortalActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "portal_action_duration_seconds",
			Help: "Duration of portal action handling in seconds",
		},
		[]string{"task_type"},
	)

	ClaimsAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_api_requests_total",
			Help: "Requests made to the claims API",
		},
		[]string{"operation", "status_class"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_notifications_total",
			Help: "Claim receipts sent, by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// StatusClass buckets an HTTP status as "2xx", "4xx", ... or "error" when no response arrived.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return fmt.Sprintf("%dxx", status/100)
}
