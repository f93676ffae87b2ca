package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

const answerCollection = "answers"

type AnswerRepository struct {
	collection[domain.Answer, mongoAnswer]
}

func NewAnswerRepository(db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{collection[domain.Answer, mongoAnswer]{
		coll:       db.Collection(answerCollection),
		resource:   "answer",
		fromDomain: toMongoAnswer,
		toUpdate:   answerUpdate,
	}}
}

type mongoAnswer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	TitleAr   string             `bson:"title_ar"`
	Content   string             `bson:"content"`
	ContentAr string             `bson:"content_ar"`
	Category  primitive.ObjectID `bson:"category"`
	CreatedAt time.Time          `bson:"created_at"`
}

func toMongoAnswer(a *domain.Answer) (mongoAnswer, error) {
	cid, err := primitive.ObjectIDFromHex(a.Category)
	if err != nil {
		return mongoAnswer{}, &domain.InvalidIDError{Field: ports.CategoryRefField, Value: a.Category}
	}
	return mongoAnswer{
		Title:     a.Title,
		TitleAr:   a.TitleAr,
		Content:   a.Content,
		ContentAr: a.ContentAr,
		Category:  cid,
		CreatedAt: a.CreatedAt,
	}, nil
}

func (m mongoAnswer) toDomain() *domain.Answer {
	return &domain.Answer{
		ID:        m.ID.Hex(),
		Title:     m.Title,
		TitleAr:   m.TitleAr,
		Content:   m.Content,
		ContentAr: m.ContentAr,
		Category:  m.Category.Hex(),
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// answerUpdate stores the category reference as an ObjectID.
func answerUpdate(patch ports.Patch) (bson.M, error) {
	set := bson.M{}
	for k, v := range patch {
		set[k] = v
	}
	if ref, ok := patch[ports.CategoryRefField].(string); ok {
		cid, err := primitive.ObjectIDFromHex(ref)
		if err != nil {
			return nil, &domain.InvalidIDError{Field: ports.CategoryRefField, Value: ref}
		}
		set[ports.CategoryRefField] = cid
	}
	return set, nil
}

// FindByCategory lists the answers that belong to a category.
func (r *AnswerRepository) FindByCategory(ctx context.Context, categoryID string) ([]*domain.Answer, error) {
	cid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, &domain.InvalidIDError{Field: "categoryId", Value: categoryID}
	}
	return r.find(ctx, bson.M{ports.CategoryRefField: cid})
}

// EnsureIndexes indexes the category reference.
func (r *AnswerRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndexes(ctx, r.coll, []mongo.IndexModel{
		{Keys: bson.D{{Key: ports.CategoryRefField, Value: 1}}},
	})
}
