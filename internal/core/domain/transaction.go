package domain

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

const (
	DefaultCurrency = "INR"
	DefaultAccount  = "Cash"
)

// Split allocates part of a transaction to another category.
type Split struct {
	CategoryID string  `json:"category_id" bson:"category_id"`
	Amount     float64 `json:"amount" bson:"amount"`
	Notes      string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Transaction is a single income or expense entry owned by UserID.
type Transaction struct {
	ID         string          `json:"_id" bson:"_id"`
	UserID     string          `json:"user_id" bson:"user_id"`
	Date       time.Time       `json:"date" bson:"date"`
	Amount     float64         `json:"amount" bson:"amount"`
	Currency   string          `json:"currency" bson:"currency"`
	Type       TransactionType `json:"type" bson:"type"`
	CategoryID string          `json:"category_id" bson:"category_id"`
	Account    string          `json:"account" bson:"account"`
	Tags       []string        `json:"tags" bson:"tags"`
	Vendor     string          `json:"vendor" bson:"vendor"`
	Client     string          `json:"client" bson:"client"`
	ProjectID  string          `json:"project_id" bson:"project_id"`
	InvoiceID  string          `json:"invoice_id" bson:"invoice_id"`
	ReceiptURL string          `json:"receipt_url" bson:"receipt_url"`
	Reconciled bool            `json:"reconciled" bson:"reconciled"`
	Notes      string          `json:"notes" bson:"notes"`
	Splits     []Split         `json:"splits" bson:"splits"`
}

// Signed returns the amount with expenses negated.
func (t *Transaction) Signed() float64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// DefaultCategory returns the category used when none is supplied.
func DefaultCategory(t TransactionType) string {
	if t == TypeIncome {
		return string(TypeIncome)
	}
	return string(TypeExpense)
}
