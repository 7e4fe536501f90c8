package ports

import (
	"time"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

// Inputs use pointer fields: nil means "not supplied". Create applies
// defaults to absent fields; Update keeps the stored value.

type TransactionInput struct {
	Date       *time.Time
	Amount     *float64
	Currency   *string
	Type       *string
	CategoryID *string
	Account    *string
	Tags       *[]string
	Vendor     *string
	Client     *string
	ProjectID  *string
	InvoiceID  *string
	ReceiptURL *string
	Reconciled *bool
	Notes      *string
	Splits     *[]domain.Split
}

type BudgetInput struct {
	CategoryID *string
	Target     *float64
	StartDate  *time.Time
	EndDate    *time.Time
	Notes      *string
}

type ClientInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	GSTIN   *string
}

type InvoiceInput struct {
	ClientID      *string
	InvoiceNumber *string
	Status        *string
	IssueDate     *time.Time
	DueDate       *time.Time
	Currency      *string
	Notes         *string
	Items         *[]domain.InvoiceItem
}
