package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

// document is a stored representation that converts back to its domain type.
type document[T any] interface {
	toDomain() *T
}

// collection implements ports.Repository[T] over a stored document type D.
type collection[T any, D document[T]] struct {
	coll       *mongo.Collection
	resource   string
	fromDomain func(*T) (D, error)
	// toUpdate converts a patch into a $set document; nil means the patch is
	// used as is.
	toUpdate func(ports.Patch) (bson.M, error)
}

func (c *collection[T, D]) Create(ctx context.Context, doc *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	d, err := c.fromDomain(doc)
	if err != nil {
		return nil, err
	}

	res, err := c.coll.InsertOne(ctx, d)
	if err != nil {
		return nil, translateWriteError(c.resource, err)
	}

	var created D
	if err := c.coll.FindOne(ctx, bson.M{"_id": res.InsertedID}).Decode(&created); err != nil {
		return nil, fmt.Errorf("reload %s: %w", c.resource, err)
	}
	return created.toDomain(), nil
}

func (c *collection[T, D]) FindAll(ctx context.Context) ([]*T, error) {
	return c.find(ctx, bson.M{})
}

func (c *collection[T, D]) find(ctx context.Context, filter bson.M) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.resource, err)
	}

	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.resource, err)
	}

	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *collection[T, D]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := c.objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d D
	if err := c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, c.translateFindError(id, err)
	}
	return d.toDomain(), nil
}

func (c *collection[T, D]) FindByIDAndUpdate(ctx context.Context, id string, patch ports.Patch) (*T, error) {
	oid, err := c.objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M(patch)
	if c.toUpdate != nil {
		if set, err = c.toUpdate(patch); err != nil {
			return nil, err
		}
	}
	if len(set) == 0 {
		return c.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d D
	err = c.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, translateWriteError(c.resource, err)
		}
		return nil, c.translateFindError(id, err)
	}
	return d.toDomain(), nil
}

func (c *collection[T, D]) FindByIDAndDelete(ctx context.Context, id string) (*T, error) {
	oid, err := c.objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d D
	if err := c.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		return nil, c.translateFindError(id, err)
	}
	return d.toDomain(), nil
}

func (c *collection[T, D]) objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &domain.InvalidIDError{Field: "id", Value: id}
	}
	return oid, nil
}

func (c *collection[T, D]) translateFindError(id string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &domain.NotFoundError{Resource: c.resource, ID: id}
	}
	return fmt.Errorf("%s %s: %w", c.resource, id, err)
}

// dupKeyPattern extracts field and value from a server E11000 message, e.g.
// `... index: email_1 dup key: { email: "a@x.com" }`.
var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([\w.]+)"?: "?([^"}]*?)"? ?\}`)

// translateWriteError turns duplicate-key write errors into a
// *domain.DuplicateKeyError naming the offending field.
func translateWriteError(resource string, err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("write %s: %w", resource, err)
	}

	field, value := parseDuplicateKey(err)
	return &domain.DuplicateKeyError{Field: field, Value: value}
}

func parseDuplicateKey(err error) (field, value string) {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if f, v, ok := matchDuplicateKey(e.Message); ok {
				return f, v
			}
		}
	}
	if f, v, ok := matchDuplicateKey(err.Error()); ok {
		return f, v
	}
	return "field", ""
}

func matchDuplicateKey(msg string) (field, value string, ok bool) {
	m := dupKeyPattern.FindStringSubmatch(msg)
	if m == nil {
		return "", "", false
	}
	return storedToJSONField(m[1]), m[2], true
}

// storedToJSONField maps stored field names back to the names clients send.
func storedToJSONField(field string) string {
	switch field {
	case "name_ar":
		return "nameAr"
	default:
		return field
	}
}
