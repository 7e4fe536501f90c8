package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveDecision(t *testing.T) {
	denied := AuthzDecisionsTotal.WithLabelValues("audit", "view", "denied")
	before := counterValue(t, denied)

	ObserveDecision(access.Request{Resource: access.ResourceAudit, Action: access.ActionView}, access.Decision{Allowed: false})

	if got := counterValue(t, denied) - before; got != 1 {
		t.Fatalf("expected denied counter +1, got %v", got)
	}
}

func TestObserveImport(t *testing.T) {
	imported := ImportRowsTotal.WithLabelValues("imported")
	uncounted := ImportRowsTotal.WithLabelValues("uncounted")
	bi, bu := counterValue(t, imported), counterValue(t, uncounted)

	ObserveImport(5, 3)

	if counterValue(t, imported)-bi != 3 || counterValue(t, uncounted)-bu != 2 {
		t.Fatalf("unexpected import counters")
	}
}

func TestObserveExport(t *testing.T) {
	c := ExportsTotal.WithLabelValues("pdf", "budgets")
	before := counterValue(t, c)
	ObserveExport(ports.FormatPDF, "budgets")
	if counterValue(t, c)-before != 1 {
		t.Fatalf("export counter not incremented")
	}
}
