package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

type recordingRecorder struct {
	records []domain.AuditRecord
}

func (r *recordingRecorder) Record(_ context.Context, rec domain.AuditRecord) {
	r.records = append(r.records, rec)
}

type stubExportService struct {
	called bool
	got    ports.ExportInput
}

func (s *stubExportService) Export(_ context.Context, _ domain.Identity, in ports.ExportInput) (*ports.ExportFile, error) {
	s.called = true
	s.got = in
	return &ports.ExportFile{Filename: "export-budgets-1.csv", ContentType: "text/csv", Body: []byte("category_id\nfood\n")}, nil
}

func TestExportHandler_AuthorizesByType(t *testing.T) {
	rec := &recordingRecorder{}
	svc := &stubExportService{}
	h := NewExportHandler(svc, access.NewAuthorizer(access.DefaultTable(), rec))

	body := `{"format":"csv","type":"budgets","startDate":"2024-01-01","endDate":"2024-12-31","includeSensitive":true}`
	c, res := newJSONContext(http.MethodPost, "/api/export", body, &root)

	if err := h.Export(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.records) != 1 || rec.records[0].Resource != "budgets" || rec.records[0].Action != "export" {
		t.Fatalf("expected one budgets.export audit record, got %+v", rec.records)
	}
	if rec.records[0].Status != domain.AuditAllowed || rec.records[0].Path != "/api/export" {
		t.Errorf("unexpected audit record: %+v", rec.records[0])
	}

	if svc.got.Type != "budgets" || svc.got.Format != ports.FormatCSV || !svc.got.IncludeSensitive {
		t.Errorf("unexpected input: %+v", svc.got)
	}
	if !svc.got.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || svc.got.To.IsZero() {
		t.Errorf("date range not parsed: %+v", svc.got)
	}
	if cd := res.Header().Get("Content-Disposition"); cd != `attachment; filename="export-budgets-1.csv"` {
		t.Errorf("content disposition: got %q", cd)
	}
	if res.Body.String() != "category_id\nfood\n" {
		t.Errorf("unexpected body: %q", res.Body.String())
	}
}

func TestExportHandler_DeniedRoleNeverReachesService(t *testing.T) {
	rec := &recordingRecorder{}
	svc := &stubExportService{}
	h := NewExportHandler(svc, access.NewAuthorizer(access.DefaultTable(), rec))

	c, _ := newJSONContext(http.MethodPost, "/api/export", `{"format":"pdf","type":"transactions"}`, &alice)

	err := h.Export(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if svc.called {
		t.Fatal("service must not run after a denial")
	}
	if len(rec.records) != 1 || rec.records[0].Status != domain.AuditDenied || rec.records[0].Reason != access.DeniedReason {
		t.Fatalf("expected one denied audit record, got %+v", rec.records)
	}
}

func TestExportHandler_UnknownTypeIsValidationError(t *testing.T) {
	rec := &recordingRecorder{}
	h := NewExportHandler(&stubExportService{}, access.NewAuthorizer(access.DefaultTable(), rec))

	c, _ := newJSONContext(http.MethodPost, "/api/export", `{"format":"csv","type":"invoices"}`, &root)

	if err := h.Export(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(rec.records) != 0 {
		t.Fatalf("no decision should be audited, got %+v", rec.records)
	}
}
