// Package metrics defines and registers all custom Prometheus metrics for
// the FixIt client core. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register themselves with the default registry at package load;
// long-running commands expose them when a metrics address is configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fixit"

// GatewayRequestsTotal counts outbound backend calls.
// Labels:
//   - group: resource group ("auth", "artisan", "user", "booking", "chat", "notification")
//   - outcome: "ok", "error", or "unauthorized"
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of outbound API gateway calls, by resource group and outcome.",
	},
	[]string{"group", "outcome"},
)

// GatewayRequestDuration measures the wall time of a single backend call.
// Label:
//   - group: resource group
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of outbound API gateway calls from request to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"group"},
)

// ChatPollTicksTotal counts conversation poll cycles.
// Label:
//   - outcome: "ok" or "error"
var ChatPollTicksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_poll_ticks_total",
		Help:      "Total number of conversation poll fetches, by outcome.",
	},
	[]string{"outcome"},
)

// ChatMessagesSentTotal counts send attempts from the poller.
// Label:
//   - outcome: "ok" or "error"
var ChatMessagesSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_sent_total",
		Help:      "Total number of chat messages sent, by outcome.",
	},
	[]string{"outcome"},
)

// SessionRoutesTotal counts launch-time routing decisions.
// Label:
//   - screen: the screen the router resolved to
var SessionRoutesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_routes_total",
		Help:      "Total number of session routing decisions, by resolved screen.",
	},
	[]string{"screen"},
)
