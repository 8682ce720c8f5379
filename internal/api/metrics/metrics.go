// Package metrics defines the custom Prometheus metrics of the API. It is the
// single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics live on the router's own registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "app_api"

// Result label values shared by the auth counters.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "rejected" (duplicate login, invalid role, bad body) or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer tokens seen by the identity filter.
// Label:
//   - result: "valid", "invalid" or "unknown_subject"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer tokens validated, by outcome.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests stopped by the authorization policy.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by the authorization policy.",
	},
	[]string{"reason"},
)

// ── Product metrics ───────────────────────────────────────────────────────────

// ProductsCreatedTotal counts newly created products.
var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	},
)

// IdempotentReplaysTotal counts POST /products calls answered from a previous
// Idempotency-Key instead of creating a new product.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of product creations replayed from an Idempotency-Key.",
	},
)
