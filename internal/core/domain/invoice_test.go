package domain

import "testing"

func TestInvoice_ApplyItems(t *testing.T) {
	var inv Invoice
	inv.ApplyItems([]InvoiceItem{
		{Description: "consulting", Quantity: 2, Rate: 100, TaxRate: 10},
		{Description: "hosting", Quantity: 1, Rate: 50, TaxRate: 0},
	})

	if inv.Subtotal != 250 {
		t.Errorf("subtotal: expected 250, got %v", inv.Subtotal)
	}
	if inv.TaxAmount != 20 {
		t.Errorf("tax_amount: expected 20, got %v", inv.TaxAmount)
	}
	if inv.Total != 270 {
		t.Errorf("total: expected 270, got %v", inv.Total)
	}
	if inv.Items[0].Amount != 200 || inv.Items[1].Amount != 50 {
		t.Errorf("item amounts not derived: %+v", inv.Items)
	}
}

func TestInvoice_ApplyItems_ReplacesPrevious(t *testing.T) {
	var inv Invoice
	inv.ApplyItems([]InvoiceItem{{Quantity: 10, Rate: 10, TaxRate: 18}})
	inv.ApplyItems([]InvoiceItem{{Quantity: 1, Rate: 5}})

	if len(inv.Items) != 1 || inv.Total != 5 || inv.TaxAmount != 0 {
		t.Fatalf("expected totals recomputed from new items, got %+v", inv)
	}
}

func TestInvoiceStatus_Valid(t *testing.T) {
	for _, s := range []InvoiceStatus{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if InvoiceStatus("void").Valid() {
		t.Error("unknown status should be invalid")
	}
}
