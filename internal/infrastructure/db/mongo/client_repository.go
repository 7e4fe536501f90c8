package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/domain"
)

const collectionClients = "clients"

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	return insert(ctx, r.col, c)
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return findOne[domain.Client](ctx, r.col, id)
}

// FindByIDs resolves many clients in one round trip; unknown ids are skipped.
func (r *ClientRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Client, error) {
	if len(ids) == 0 {
		return []*domain.Client{}, nil
	}
	return findMany[domain.Client](ctx, r.col, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *ClientRepository) List(ctx context.Context, scope access.Scope) ([]*domain.Client, error) {
	return findMany[domain.Client](ctx, r.col, scopeFilter(scope))
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	return replace(ctx, r.col, c.ID, c)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.col, id)
}
