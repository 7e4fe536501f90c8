package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

func newExportFixture() (*ExportService, *stubTransactionRepo, *stubBudgetRepo) {
	txs := newStubTransactionRepo()
	budgets := newStubBudgetRepo()
	svc := NewExportService(txs, budgets, csvRenderer{}, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, txs, budgets
}

func TestExportService_TransactionsCSV(t *testing.T) {
	svc, txs, _ := newExportFixture()
	_ = txs.Create(context.Background(), &domain.Transaction{
		ID: "1", UserID: "alice", Type: domain.TypeExpense, CategoryID: "food", Amount: 12.5,
		Currency: "INR", Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Notes: "lunch", Vendor: "Cafe",
	})
	_ = txs.Create(context.Background(), &domain.Transaction{ID: "2", UserID: "bob", Type: domain.TypeIncome, Amount: 1})

	file, err := svc.Export(context.Background(), alice, ports.ExportInput{Format: ports.FormatCSV, Type: "transactions"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ContentType != "text/csv" || !strings.HasPrefix(file.Filename, "export-transactions-") || !strings.HasSuffix(file.Filename, ".csv") {
		t.Errorf("unexpected file meta: %s %s", file.ContentType, file.Filename)
	}
	want := "date,type,category_id,amount,currency\n2024-05-03,expense,food,12.50,INR\n"
	if string(file.Body) != want {
		t.Errorf("body = %q, want %q", file.Body, want)
	}

	sensitive, _ := svc.Export(context.Background(), alice, ports.ExportInput{Format: ports.FormatCSV, Type: "transactions", IncludeSensitive: true})
	if !strings.Contains(string(sensitive.Body), "notes,vendor,client") || !strings.Contains(string(sensitive.Body), "lunch,Cafe,") {
		t.Errorf("sensitive columns missing: %q", sensitive.Body)
	}
}

func TestExportService_DateRange(t *testing.T) {
	svc, txs, _ := newExportFixture()
	for i, d := range []int{1, 10, 20} {
		_ = txs.Create(context.Background(), &domain.Transaction{
			ID: string(rune('a' + i)), UserID: "alice", Type: domain.TypeIncome, Amount: 1,
			Date: time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC),
		})
	}

	file, err := svc.Export(context.Background(), alice, ports.ExportInput{
		Format: ports.FormatCSV,
		Type:   "transactions",
		From:   time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Count(string(file.Body), "\n"); lines != 3 {
		t.Errorf("expected header + 2 rows, got %d lines: %q", lines, file.Body)
	}
}

func TestExportService_BudgetsPDF(t *testing.T) {
	svc, _, budgets := newExportFixture()
	_ = budgets.Create(context.Background(), &domain.Budget{ID: "b", UserID: "alice", CategoryID: "food", Target: 100})

	var gotFormat ports.ExportFormat
	var gotKind string
	svc.OnExport(func(f ports.ExportFormat, k string) { gotFormat, gotKind = f, k })

	file, err := svc.Export(context.Background(), alice, ports.ExportInput{Format: ports.FormatPDF, Type: "budgets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ContentType != "application/pdf" || !strings.HasSuffix(file.Filename, ".pdf") {
		t.Errorf("unexpected file meta: %s %s", file.ContentType, file.Filename)
	}
	if gotFormat != ports.FormatPDF || gotKind != "budgets" {
		t.Errorf("export hook got %s/%s", gotFormat, gotKind)
	}
}

func TestExportService_Validation(t *testing.T) {
	svc, _, _ := newExportFixture()

	for _, in := range []ports.ExportInput{
		{Format: "xlsx", Type: "transactions"},
		{Format: ports.FormatCSV, Type: "invoices"},
	} {
		if _, err := svc.Export(context.Background(), alice, in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
}
