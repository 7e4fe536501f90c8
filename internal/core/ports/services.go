package ports

import (
	"context"
	"io"
	"time"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

type TransactionService interface {
	List(ctx context.Context, id domain.Identity, filter TransactionFilter) ([]*domain.Transaction, error)
	Create(ctx context.Context, id domain.Identity, in TransactionInput) (*domain.Transaction, error)
	Update(ctx context.Context, id domain.Identity, txID string, in TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id domain.Identity, txID string) (*domain.Transaction, error)
	ExportCSV(ctx context.Context, id domain.Identity, w io.Writer) error
	ImportCSV(ctx context.Context, id domain.Identity, r io.Reader) (int, error)
}

type BudgetService interface {
	List(ctx context.Context, id domain.Identity) ([]*domain.Budget, error)
	Create(ctx context.Context, id domain.Identity, in BudgetInput) (*domain.Budget, error)
	Update(ctx context.Context, id domain.Identity, budgetID string, in BudgetInput) (*domain.Budget, error)
	Delete(ctx context.Context, id domain.Identity, budgetID string) (*domain.Budget, error)
}

type ClientService interface {
	List(ctx context.Context, id domain.Identity) ([]*domain.Client, error)
	Get(ctx context.Context, id domain.Identity, clientID string) (*domain.Client, error)
	Create(ctx context.Context, id domain.Identity, in ClientInput) (*domain.Client, error)
	Update(ctx context.Context, id domain.Identity, clientID string, in ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id domain.Identity, clientID string) (*domain.Client, error)
}

type InvoiceService interface {
	List(ctx context.Context, id domain.Identity) ([]*domain.Invoice, error)
	Get(ctx context.Context, id domain.Identity, invoiceID string) (*domain.Invoice, error)
	Create(ctx context.Context, id domain.Identity, in InvoiceInput) (*domain.Invoice, error)
	Update(ctx context.Context, id domain.Identity, invoiceID string, in InvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, id domain.Identity, invoiceID string) (*domain.Invoice, error)
}

type AuditService interface {
	Recent(ctx context.Context, limit int) ([]*domain.AuditRecord, error)
}

// BudgetProgress is a budget annotated with spend against it.
type BudgetProgress struct {
	*domain.Budget
	Used     float64 `json:"used"`
	Progress int     `json:"progress"`
}

// Snapshot is the dashboard view of the caller's visible data.
type Snapshot struct {
	Balance       float64          `json:"balance"`
	CashFlow30d   float64          `json:"cashflow_30d"`
	CashFlow90d   float64          `json:"cashflow_90d"`
	UpcomingBills int              `json:"upcoming_bills"`
	Budgets       []BudgetProgress `json:"budgets"`
}

type DashboardService interface {
	Snapshot(ctx context.Context, id domain.Identity) (*Snapshot, error)
}

// ExportFormat selects the renderer.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportInput describes a POST /api/export request.
type ExportInput struct {
	Format           ExportFormat
	Type             string // transactions | budgets
	From             time.Time
	To               time.Time
	IncludeSensitive bool
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ExportService interface {
	Export(ctx context.Context, id domain.Identity, in ExportInput) (*ExportFile, error)
}

// Report is the format-neutral table handed to a renderer.
type Report struct {
	Title   string
	Summary []string
	Columns []string
	Rows    [][]string
}

// ReportRenderer turns a Report into a file body.
type ReportRenderer interface {
	CSV(w io.Writer, r Report) error
	PDF(w io.Writer, r Report) error
}

// FileStore persists uploaded files and returns the stored name.
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
}
