package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
)

type recorderStub struct {
	records []domain.AuditRecord
}

func (r *recorderStub) Record(_ context.Context, rec domain.AuditRecord) {
	r.records = append(r.records, rec)
}

func newAuthzContext(role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	req.Header.Set("X-Real-IP", "10.1.2.3")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(IdentityKey, domain.Identity{UserID: "u1", Role: role})
	return c, rec
}

func TestAuthorize_Allows(t *testing.T) {
	audit := &recorderStub{}
	authz := access.NewAuthorizer(access.DefaultTable(), audit)
	c, rec := newAuthzContext(domain.RoleAdmin)

	called := false
	handler := Authorize(authz, access.ResourceAudit, access.ActionView)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(audit.records) != 1 || audit.records[0].Status != domain.AuditAllowed {
		t.Fatalf("expected one allowed audit record, got %+v", audit.records)
	}
	if audit.records[0].IP != "10.1.2.3" || audit.records[0].Path != "/api/audit" {
		t.Fatalf("request context not audited: %+v", audit.records[0])
	}
}

func TestAuthorize_Forbids(t *testing.T) {
	audit := &recorderStub{}
	authz := access.NewAuthorizer(access.DefaultTable(), audit)
	c, _ := newAuthzContext(domain.RoleViewer)

	handler := Authorize(authz, access.ResourceAudit, access.ActionView)(func(c echo.Context) error {
		t.Fatalf("next handler should not run")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(audit.records) != 1 || audit.records[0].Status != domain.AuditDenied || audit.records[0].Reason != access.DeniedReason {
		t.Fatalf("expected one denied audit record, got %+v", audit.records)
	}
}

func TestAuthorize_RequiresIdentity(t *testing.T) {
	audit := &recorderStub{}
	authz := access.NewAuthorizer(access.DefaultTable(), audit)
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := Authorize(authz, access.ResourceDashboard, access.ActionView)(func(c echo.Context) error { return nil })(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(audit.records) != 0 {
		t.Fatalf("no decision should be audited without identity")
	}
}
