package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

const accountCollection = "users"

type AccountRepository struct {
	collection[domain.Account, mongoAccount]
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{collection[domain.Account, mongoAccount]{
		coll:       db.Collection(accountCollection),
		resource:   "user",
		fromDomain: toMongoAccount,
	}}
}

type mongoAccount struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash"`
	Role              string             `bson:"role"`
	Active            bool               `bson:"active"`
	PasswordChangedAt *time.Time         `bson:"password_changed_at,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toMongoAccount(a *domain.Account) (mongoAccount, error) {
	return mongoAccount{
		Name:              a.Name,
		Email:             a.Email,
		PasswordHash:      a.PasswordHash,
		Role:              a.Role,
		Active:            a.Active,
		PasswordChangedAt: a.PasswordChangedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}, nil
}

func (m mongoAccount) toDomain() *domain.Account {
	a := &domain.Account{
		ID:           m.ID.Hex(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	if m.PasswordChangedAt != nil {
		t := m.PasswordChangedAt.UTC()
		a.PasswordChangedAt = &t
	}
	return a
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Resource: "user", ID: email}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

// EnsureIndexes creates the unique email index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndexes(ctx, r.coll, []mongo.IndexModel{
		uniqueIndex("email"),
	})
}
