// Package metrics defines the custom Prometheus metrics of the knowledge-base
// API. HTTP request metrics come from echoprometheus; everything here is
// domain level.
//
// All metrics are registered with the default registry at package init via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "knowledge_base"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the identity resolver or the
// permission gate.
// Label:
//   - reason: "no_token", "token_invalid", "token_expired", "account_not_found",
//     "account_deactivated", "stale_password", "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected during authentication or authorization.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ResourceMutationsTotal counts successful writes made through the resource
// factory.
// Labels:
//   - resource: "category", "answer", "user"
//   - op: "create", "update", "delete"
var ResourceMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_mutations_total",
		Help:      "Total number of successful create/update/delete operations, by resource.",
	},
	[]string{"resource", "op"},
)

// CategoryLinkFailuresTotal counts failed writes to a category's answer list.
// Labels:
//   - op: "add" or "remove"
//   - compensated: "true" when the orphaned answer was rolled back
var CategoryLinkFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "category_link_failures_total",
		Help:      "Total number of failed category answer-list updates.",
	},
	[]string{"op", "compensated"},
)
