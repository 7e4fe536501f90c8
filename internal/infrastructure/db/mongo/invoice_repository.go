package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
)

const collectionInvoices = "invoices"

// InvoiceRepository relies on the unique invoice_number index created by
// EnsureIndexes to report duplicates as domain.ErrConflict.
type InvoiceRepository struct {
	col *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{col: db.Collection(collectionInvoices)}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	return insert(ctx, r.col, inv)
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return findOne[domain.Invoice](ctx, r.col, id)
}

func (r *InvoiceRepository) List(ctx context.Context, scope access.Scope) ([]*domain.Invoice, error) {
	return findMany[domain.Invoice](ctx, r.col, scopeFilter(scope))
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	return replace(ctx, r.col, inv.ID, inv)
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.col, id)
}
