// Package metrics defines and registers the custom Prometheus metrics of the
// tutoring marketplace API. It is the single source of truth for metric names,
// labels and help strings.
//
// All metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tutoring"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts accounts created through the register endpoint.
// Label:
//   - role: account role, "standard" for self-registration
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// UsersDeletedTotal counts accounts removed by administrators.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user accounts deleted.",
	},
)

// ── Announcement metrics ──────────────────────────────────────────────────────

// AnnouncementMutationsTotal counts successful announcement mutations.
// Label:
//   - operation: "create", "update" or "delete"
var AnnouncementMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "announcement_mutations_total",
		Help:      "Total number of announcement mutations, by operation.",
	},
	[]string{"operation"},
)

// ── Error metrics ─────────────────────────────────────────────────────────────

// ErrorResponsesTotal counts failure envelopes rendered at the HTTP boundary.
// Label:
//   - kind: domain error kind ("unauthorized_access", "validation_error", …),
//     "http" for transport errors, "internal" for the catch-all
var ErrorResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "error_responses_total",
		Help:      "Total number of error responses, by error kind.",
	},
	[]string{"kind"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsProcessedTotal counts delivery attempts.
// Label:
//   - result: "sent", "failed" or "duplicate"
var NotificationsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_processed_total",
		Help:      "Total number of notifications taken off the queue, by result.",
	},
	[]string{"result"},
)

// NotificationsDroppedTotal counts notifications rejected because the target
// worker queue was full.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped on a full queue.",
	},
)

// NotificationsQueueDepth tracks pending notifications per worker channel.
// Label:
//   - worker_id: numeric worker index
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDeliveryDuration measures a single delivery from dequeue to
// completion.
var NotificationDeliveryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_delivery_duration_seconds",
		Help:      "Duration of notification delivery from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
)
