package ports

import (
	"context"
	"time"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
)

// TransactionFilter carries the optional list filters. Zero values mean
// "no filter".
type TransactionFilter struct {
	Type        domain.TransactionType
	Account     string
	CategoryIDs []string
	Tag         string
	Reconciled  *bool
	From        time.Time // date >= From
	To          time.Time // date <= To
	Query       string    // case-insensitive match on notes, vendor, client, tags
}

// BudgetFilter narrows budgets by window: start_date >= StartFrom and
// end_date <= EndTo.
type BudgetFilter struct {
	StartFrom time.Time
	EndTo     time.Time
}

// Every FindByID returns domain.ErrNotFound when the id does not resolve.

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, scope access.Scope, filter TransactionFilter) ([]*domain.Transaction, error)
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}

type BudgetRepository interface {
	Create(ctx context.Context, b *domain.Budget) error
	FindByID(ctx context.Context, id string) (*domain.Budget, error)
	List(ctx context.Context, scope access.Scope, filter BudgetFilter) ([]*domain.Budget, error)
	Update(ctx context.Context, b *domain.Budget) error
	Delete(ctx context.Context, id string) error
}

type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) error
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Client, error)
	List(ctx context.Context, scope access.Scope) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// InvoiceRepository returns domain.ErrConflict from Create and Update when
// the invoice number is already taken.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, scope access.Scope) ([]*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id string) error
}

// AuditRepository is append-only.
type AuditRepository interface {
	Insert(ctx context.Context, rec *domain.AuditRecord) error
	Recent(ctx context.Context, limit int) ([]*domain.AuditRecord, error)
}
