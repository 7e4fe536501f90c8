package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

func TestAuditService_Record_FillsIDAndTimestamp(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	svc.Record(context.Background(), domain.AuditRecord{UserID: "alice", Resource: "budgets", Action: "view", Status: domain.AuditAllowed})

	if len(repo.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(repo.records))
	}
	rec := repo.records[0]
	if rec.ID == "" || !rec.Timestamp.Equal(fixedNow) {
		t.Errorf("id/timestamp not filled: %+v", rec)
	}
}

func TestAuditService_Record_SwallowsFailure(t *testing.T) {
	repo := &stubAuditRepo{err: errStoreDown}
	svc := NewAuditService(repo, zerolog.Nop())
	failures := 0
	svc.OnFailure(func() { failures++ })

	svc.Record(context.Background(), domain.AuditRecord{Status: domain.AuditDenied})

	if failures != 1 {
		t.Errorf("expected failure hook once, got %d", failures)
	}
}

func TestAuditService_Recent_NewestFirst(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		svc.Record(ctx, domain.AuditRecord{Path: "/p", Timestamp: fixedNow.Add(time.Duration(i) * time.Minute)})
	}

	recs, err := svc.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != DefaultAuditLimit {
		t.Fatalf("expected %d records, got %d", DefaultAuditLimit, len(recs))
	}
	if !recs[0].Timestamp.Equal(fixedNow.Add(119 * time.Minute)) {
		t.Errorf("newest record should come first, got %v", recs[0].Timestamp)
	}
}
