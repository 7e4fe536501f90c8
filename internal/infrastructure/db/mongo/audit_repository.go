package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

const collectionAudit = "audits"

// AuditRepository is insert-only; records are never updated or deleted.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, rec *domain.AuditRecord) error {
	return insert(ctx, r.col, rec)
}

func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*domain.AuditRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	return findMany[domain.AuditRecord](ctx, r.col, bson.M{}, opts)
}
