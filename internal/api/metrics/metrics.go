// Package metrics defines the custom Prometheus metrics of the finance API.
// Every metric is registered with the default registry on import, next to the
// HTTP metrics recorded by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

const namespace = "finance"

// ── Access control ────────────────────────────────────────────────────────────

// AuthzDecisionsTotal counts authorization decisions.
// Labels:
//   - resource, action: the permission table key
//   - result: "allowed" or "denied"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions by resource, action and result.",
	},
	[]string{"resource", "action", "result"},
)

// AuditWriteFailuresTotal counts audit records the store rejected.
var AuditWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of audit records that could not be persisted.",
	},
)

// AuditDroppedTotal counts audit records discarded because the queue was full
// or already closed.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit records dropped before reaching the store.",
	},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - scope: the limited route group (e.g. "auth")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"scope"},
)

// ── Import / export ───────────────────────────────────────────────────────────

// ImportRowsTotal counts CSV rows read by the transaction importer.
// Label:
//   - result: "imported" (non-zero amount) or "uncounted" (stored, not counted)
var ImportRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Total number of CSV rows imported, by whether they counted towards the result.",
	},
	[]string{"result"},
)

// ExportsTotal counts generated exports.
// Labels:
//   - format: "csv" or "pdf"
//   - type: "transactions" or "budgets"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of exports generated, by format and type.",
	},
	[]string{"format", "type"},
)

// ObserveDecision is an access.Authorizer observer.
func ObserveDecision(req access.Request, d access.Decision) {
	result := "allowed"
	if !d.Allowed {
		result = "denied"
	}
	AuthzDecisionsTotal.WithLabelValues(string(req.Resource), string(req.Action), result).Inc()
}

// ObserveImport records one CSV import.
func ObserveImport(rows, imported int) {
	ImportRowsTotal.WithLabelValues("imported").Add(float64(imported))
	ImportRowsTotal.WithLabelValues("uncounted").Add(float64(rows - imported))
}

// ObserveExport records one generated export.
func ObserveExport(format ports.ExportFormat, kind string) {
	ExportsTotal.WithLabelValues(string(format), kind).Inc()
}
