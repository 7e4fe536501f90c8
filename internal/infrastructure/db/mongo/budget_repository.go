package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
	"github.com/ledgerly/finance-api/internal/core/ports"
)

const collectionBudgets = "budgets"

type BudgetRepository struct {
	col *mongo.Collection
}

func NewBudgetRepository(db *mongo.Database) *BudgetRepository {
	return &BudgetRepository{col: db.Collection(collectionBudgets)}
}

func (r *BudgetRepository) Create(ctx context.Context, b *domain.Budget) error {
	return insert(ctx, r.col, b)
}

func (r *BudgetRepository) FindByID(ctx context.Context, id string) (*domain.Budget, error) {
	return findOne[domain.Budget](ctx, r.col, id)
}

func (r *BudgetRepository) List(ctx context.Context, scope access.Scope, f ports.BudgetFilter) ([]*domain.Budget, error) {
	return findMany[domain.Budget](ctx, r.col, budgetQuery(scope, f))
}

func (r *BudgetRepository) Update(ctx context.Context, b *domain.Budget) error {
	return replace(ctx, r.col, b.ID, b)
}

func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.col, id)
}
