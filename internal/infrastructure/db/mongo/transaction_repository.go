package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

const collectionTransactions = "transactions"

type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return insert(ctx, r.col, t)
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return findOne[domain.Transaction](ctx, r.col, id)
}

// List pushes both the ownership scope and the filters into a single query.
func (r *TransactionRepository) List(ctx context.Context, scope access.Scope, f ports.TransactionFilter) ([]*domain.Transaction, error) {
	return findMany[domain.Transaction](ctx, r.col, transactionQuery(scope, f))
}

func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	return replace(ctx, r.col, t.ID, t)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.col, id)
}
