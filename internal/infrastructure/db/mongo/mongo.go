package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faqhub/knowledge-base/internal/core/domain"
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

// Repositories groups the collections the API reads and writes.
type Repositories struct {
	Accounts   *AccountRepository
	Categories *CategoryRepository
	Answers    *AnswerRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Accounts:   NewAccountRepository(db),
		Categories: NewCategoryRepository(db),
		Answers:    NewAnswerRepository(db),
	}
}

// EnsureIndexes creates the unique indexes duplicate-key detection relies on.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		r.Accounts.EnsureIndexes,
		r.Categories.EnsureIndexes,
		r.Answers.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create %s indexes: %w", coll.Name(), err)
	}
	return nil
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, &domain.InvalidIDError{Field: "id", Value: id}
		}
		out = append(out, oid)
	}
	return out, nil
}

func hexIDs(oids []primitive.ObjectID) []string {
	out := make([]string, 0, len(oids))
	for _, oid := range oids {
		out = append(out, oid.Hex())
	}
	return out
}
