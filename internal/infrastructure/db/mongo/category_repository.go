package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

const categoryCollection = "categories"

// RelationAnswers is the only relation a category can expand.
const RelationAnswers = "answers"

// CategoryRepository stores categories and maintains their answer lists.
type CategoryRepository struct {
	collection[domain.Category, mongoCategory]
	answers *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		collection: collection[domain.Category, mongoCategory]{
			coll:       db.Collection(categoryCollection),
			resource:   "category",
			fromDomain: toMongoCategory,
		},
		answers: db.Collection(answerCollection),
	}
}

type mongoCategory struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	NameAr    string               `bson:"name_ar"`
	Answers   []primitive.ObjectID `bson:"answers"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func toMongoCategory(c *domain.Category) (mongoCategory, error) {
	answers, err := objectIDs(c.Answers)
	if err != nil {
		return mongoCategory{}, err
	}
	return mongoCategory{
		Name:      c.Name,
		NameAr:    c.NameAr,
		Answers:   answers,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func (m mongoCategory) toDomain() *domain.Category {
	return &domain.Category{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		NameAr:    m.NameAr,
		Answers:   hexIDs(m.Answers),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// Exists reports whether a category with the given id is stored.
func (r *CategoryRepository) Exists(ctx context.Context, categoryID string) (bool, error) {
	oid, err := r.objectID(categoryID)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("count category: %w", err)
	}
	return n > 0, nil
}

// AddAnswer uses $addToSet so an id is never listed twice.
func (r *CategoryRepository) AddAnswer(ctx context.Context, categoryID, answerID string) error {
	return r.updateAnswers(ctx, categoryID, answerID, "$addToSet")
}

func (r *CategoryRepository) RemoveAnswer(ctx context.Context, categoryID, answerID string) error {
	return r.updateAnswers(ctx, categoryID, answerID, "$pull")
}

func (r *CategoryRepository) updateAnswers(ctx context.Context, categoryID, answerID, op string) error {
	cid, err := r.objectID(categoryID)
	if err != nil {
		return err
	}
	aid, err := r.objectID(answerID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": cid},
		bson.M{
			op:     bson.M{"answers": aid},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("%s category answers: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return &domain.NotFoundError{Resource: "category", ID: categoryID}
	}
	return nil
}

// FindByIDPopulated loads a category and replaces its answer ids with the
// answer documents, in list order. Ids whose answer no longer exists are
// skipped.
func (r *CategoryRepository) FindByIDPopulated(ctx context.Context, id, relation string) (*domain.CategoryWithAnswers, error) {
	if relation != RelationAnswers {
		return nil, fmt.Errorf("category: unknown relation %q", relation)
	}

	oid, err := r.objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c mongoCategory
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		return nil, r.translateFindError(id, err)
	}

	out := &domain.CategoryWithAnswers{
		ID:        c.ID.Hex(),
		Name:      c.Name,
		NameAr:    c.NameAr,
		Answers:   []*domain.Answer{},
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
	if len(c.Answers) == 0 {
		return out, nil
	}

	cur, err := r.answers.Find(ctx, bson.M{"_id": bson.M{"$in": c.Answers}})
	if err != nil {
		return nil, fmt.Errorf("populate answers: %w", err)
	}
	var docs []mongoAnswer
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	byID := make(map[primitive.ObjectID]*domain.Answer, len(docs))
	for _, d := range docs {
		byID[d.ID] = d.toDomain()
	}
	for _, aid := range c.Answers {
		if a, ok := byID[aid]; ok {
			out.Answers = append(out.Answers, a)
		}
	}
	return out, nil
}

// EnsureIndexes creates the unique name indexes.
func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndexes(ctx, r.coll, []mongo.IndexModel{
		uniqueIndex("name"),
		uniqueIndex("name_ar"),
	})
}
