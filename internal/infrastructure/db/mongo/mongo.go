package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerly/finance-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Ping checks that the server answers and the database accepts commands.
func Ping(ctx context.Context, db *mongo.Database) error {
	if err := db.Client().Ping(ctx, nil); err != nil {
		return err
	}
	return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// EnsureIndexes creates the unique and lookup indexes every repository relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	plan := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collectionTransactions: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
		},
		collectionBudgets: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionClients: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionInvoices: {
			{Keys: bson.D{{Key: "invoice_number", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionAudit: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
	}

	for name, models := range plan {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// translate maps driver errors onto the domain taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrConflict
	}
	return err
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*T, 0)
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func findOne[T any](ctx context.Context, col *mongo.Collection, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v T
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func insert(ctx context.Context, col *mongo.Collection, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := col.InsertOne(ctx, doc)
	return translate(err)
}

func replace(ctx context.Context, col *mongo.Collection, id string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func remove(ctx context.Context, col *mongo.Collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
