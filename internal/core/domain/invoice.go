package domain

import "time"

// InvoiceStatus tracks an invoice through billing.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// InvoiceItem is one billed line. Amount is derived as Quantity × Rate.
type InvoiceItem struct {
	Description string  `json:"description" bson:"description"`
	Quantity    float64 `json:"quantity" bson:"quantity"`
	Rate        float64 `json:"rate" bson:"rate"`
	Amount      float64 `json:"amount" bson:"amount"`
	TaxRate     float64 `json:"tax_rate" bson:"tax_rate"`
}

// ClientSummary is the subset of a client embedded in invoice responses.
type ClientSummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Invoice bills a client for a set of items. Totals are always derived from
// Items via ApplyItems; the stored TaxRate stays 0 because tax is per item.
type Invoice struct {
	ID            string         `json:"_id" bson:"_id"`
	UserID        string         `json:"user_id" bson:"user_id"`
	ClientID      string         `json:"client_id" bson:"client_id"`
	InvoiceNumber string         `json:"invoice_number" bson:"invoice_number"`
	Status        InvoiceStatus  `json:"status" bson:"status"`
	IssueDate     time.Time      `json:"issue_date" bson:"issue_date"`
	DueDate       time.Time      `json:"due_date" bson:"due_date"`
	Subtotal      float64        `json:"subtotal" bson:"subtotal"`
	TaxRate       float64        `json:"tax_rate" bson:"tax_rate"`
	TaxAmount     float64        `json:"tax_amount" bson:"tax_amount"`
	Total         float64        `json:"total" bson:"total"`
	Currency      string         `json:"currency" bson:"currency"`
	Notes         string         `json:"notes" bson:"notes"`
	Items         []InvoiceItem  `json:"items" bson:"items"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	Client        *ClientSummary `json:"client,omitempty" bson:"-"`
}

// ApplyItems replaces the invoice items and recomputes every derived amount:
// amount = quantity × rate, tax = amount × tax_rate / 100,
// subtotal = Σamount, tax_amount = Σtax, total = subtotal + tax_amount.
func (inv *Invoice) ApplyItems(items []InvoiceItem) {
	var subtotal, tax float64
	out := make([]InvoiceItem, len(items))
	for i, it := range items {
		it.Amount = it.Quantity * it.Rate
		subtotal += it.Amount
		tax += it.Amount * it.TaxRate / 100
		out[i] = it
	}
	inv.Items = out
	inv.Subtotal = subtotal
	inv.TaxAmount = tax
	inv.Total = subtotal + tax
}
