package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

func newInvoiceFixture(t *testing.T) (*InvoiceService, *domain.Client) {
	t.Helper()
	clients := newStubClientRepo()
	client := &domain.Client{ID: "c-1", UserID: "alice", Name: "Acme", Email: "billing@acme.test"}
	_ = clients.Create(context.Background(), client)
	return NewInvoiceService(newStubInvoiceRepo(), clients, zerolog.Nop()), client
}

func invoiceInput(number string) ports.InvoiceInput {
	return ports.InvoiceInput{
		ClientID:      ptr("c-1"),
		InvoiceNumber: ptr(number),
		IssueDate:     ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		DueDate:       ptr(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)),
		Items: &[]domain.InvoiceItem{
			{Description: "Design", Quantity: 2, Rate: 100, TaxRate: 10},
			{Description: "Hosting", Quantity: 1, Rate: 50},
		},
	}
}

func TestInvoiceService_Create_ComputesTotals(t *testing.T) {
	svc, _ := newInvoiceFixture(t)

	inv, err := svc.Create(context.Background(), alice, invoiceInput("INV-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Subtotal != 250 || inv.TaxAmount != 20 || inv.Total != 270 {
		t.Errorf("totals: subtotal=%v tax=%v total=%v", inv.Subtotal, inv.TaxAmount, inv.Total)
	}
	if inv.Status != domain.InvoiceDraft || inv.Currency != "INR" {
		t.Errorf("defaults not applied: status=%s currency=%s", inv.Status, inv.Currency)
	}
}

func TestInvoiceService_Create_Validation(t *testing.T) {
	svc, _ := newInvoiceFixture(t)

	noItems := invoiceInput("INV-2")
	noItems.Items = &[]domain.InvoiceItem{}
	noDue := invoiceInput("INV-3")
	noDue.DueDate = nil
	badStatus := invoiceInput("INV-4")
	badStatus.Status = ptr("void")

	for name, in := range map[string]ports.InvoiceInput{"empty items": noItems, "no due date": noDue, "bad status": badStatus} {
		if _, err := svc.Create(context.Background(), alice, in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestInvoiceService_DuplicateNumberConflicts(t *testing.T) {
	svc, _ := newInvoiceFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice, invoiceInput("INV-1")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, bob, invoiceInput("INV-1")); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	other, _ := svc.Create(ctx, alice, invoiceInput("INV-2"))
	if _, err := svc.Update(ctx, alice, other.ID, ports.InvoiceInput{InvoiceNumber: ptr("INV-1")}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict on update, got %v", err)
	}
}

func TestInvoiceService_Update_RecomputesOnItems(t *testing.T) {
	svc, _ := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := svc.Create(ctx, alice, invoiceInput("INV-1"))

	statusOnly, err := svc.Update(ctx, alice, inv.ID, ports.InvoiceInput{Status: ptr("sent")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if statusOnly.Total != 270 || statusOnly.Status != domain.InvoiceSent {
		t.Errorf("status update should keep totals: %+v", statusOnly)
	}

	replaced, err := svc.Update(ctx, alice, inv.ID, ports.InvoiceInput{
		Items: &[]domain.InvoiceItem{{Description: "Audit", Quantity: 3, Rate: 10, TaxRate: 50}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(replaced.Items) != 1 || replaced.Subtotal != 30 || replaced.TaxAmount != 15 || replaced.Total != 45 {
		t.Errorf("recompute failed: %+v", replaced)
	}
	if _, err := svc.Update(ctx, alice, inv.ID, ports.InvoiceInput{Items: &[]domain.InvoiceItem{}}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for empty items, got %v", err)
	}
}

func TestInvoiceService_ListAndGet_AttachClient(t *testing.T) {
	svc, client := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := svc.Create(ctx, alice, invoiceInput("INV-1"))

	list, err := svc.List(ctx, manager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Client == nil || list[0].Client.Name != client.Name || list[0].Client.Email != client.Email {
		t.Fatalf("client summary missing: %+v", list)
	}

	got, err := svc.Get(ctx, admin, inv.ID)
	if err != nil || got.Client == nil {
		t.Fatalf("detail without client: %v", err)
	}
	if _, err := svc.Get(ctx, bob, inv.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if own, _ := svc.List(ctx, bob); len(own) != 0 {
		t.Errorf("bob should see no invoices, got %d", len(own))
	}
}

func TestInvoiceService_Delete_ReturnsPriorState(t *testing.T) {
	svc, _ := newInvoiceFixture(t)
	ctx := context.Background()

	inv, _ := svc.Create(ctx, alice, invoiceInput("INV-1"))
	deleted, err := svc.Delete(ctx, manager, inv.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.InvoiceNumber != "INV-1" || deleted.Total != 270 {
		t.Errorf("expected prior state, got %+v", deleted)
	}
	if _, err := svc.Get(ctx, admin, inv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
