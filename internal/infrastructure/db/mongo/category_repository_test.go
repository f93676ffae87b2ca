package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestCategoryRepository_UpdateAnswers(t *testing.T) {
	mt := newMockT(t)
	cid, aid := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	mt.Run("unknown category is not found", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.AddAnswer(context.Background(), cid, aid)
		var nf *domain.NotFoundError
		if !errors.As(err, &nf) || nf.ID != cid {
			mt.Fatalf("expected NotFoundError for %s, got %v", cid, err)
		}
	})

	mt.Run("matched category succeeds", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		if err := repo.RemoveAnswer(context.Background(), cid, aid); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("malformed ids never reach the server", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB)

		if err := repo.AddAnswer(context.Background(), "bad", aid); !errors.Is(err, domain.ErrInvalidID) {
			mt.Errorf("expected ErrInvalidID for category, got %v", err)
		}
		if err := repo.AddAnswer(context.Background(), cid, "bad"); !errors.Is(err, domain.ErrInvalidID) {
			mt.Errorf("expected ErrInvalidID for answer, got %v", err)
		}
	})
}

func answerDoc(id, category primitive.ObjectID, title string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "title_ar", Value: title},
		{Key: "content", Value: "c"},
		{Key: "content_ar", Value: "c"},
		{Key: "category", Value: category},
		{Key: "created_at", Value: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
	}
}

func TestCategoryRepository_FindByIDPopulated(t *testing.T) {
	mt := newMockT(t)

	mt.Run("keeps list order and skips missing answers", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB)
		cid := primitive.NewObjectID()
		first, missing, last := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

		category := bson.D{
			{Key: "_id", Value: cid},
			{Key: "name", Value: "General"},
			{Key: "name_ar", Value: "عام"},
			{Key: "answers", Value: bson.A{first, missing, last}},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "knowledge_base.categories", mtest.FirstBatch, category),
			// the server returns answers in its own order
			mtest.CreateCursorResponse(0, "knowledge_base.answers", mtest.FirstBatch,
				answerDoc(last, cid, "last"),
				answerDoc(first, cid, "first"),
			),
		)

		got, err := repo.FindByIDPopulated(context.Background(), cid.Hex(), RelationAnswers)
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got.ID != cid.Hex() || got.NameAr != "عام" {
			mt.Errorf("unexpected category %+v", got)
		}
		if len(got.Answers) != 2 {
			mt.Fatalf("expected 2 answers, got %d", len(got.Answers))
		}
		if got.Answers[0].ID != first.Hex() || got.Answers[1].ID != last.Hex() {
			mt.Errorf("expected [%s %s], got [%s %s]", first.Hex(), last.Hex(), got.Answers[0].ID, got.Answers[1].ID)
		}
		if got.Answers[0].Category != cid.Hex() {
			mt.Errorf("expected category %s, got %s", cid.Hex(), got.Answers[0].Category)
		}
	})

	mt.Run("empty list skips the answers query", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB)
		cid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "knowledge_base.categories", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: cid},
			{Key: "name", Value: "Empty"},
			{Key: "answers", Value: bson.A{}},
		}))

		got, err := repo.FindByIDPopulated(context.Background(), cid.Hex(), RelationAnswers)
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if got.Answers == nil || len(got.Answers) != 0 {
			mt.Errorf("expected an empty, non-nil answer list, got %#v", got.Answers)
		}
	})

	mt.Run("unknown category is not found", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "knowledge_base.categories", mtest.FirstBatch))

		_, err := repo.FindByIDPopulated(context.Background(), primitive.NewObjectID().Hex(), RelationAnswers)
		if !errors.Is(err, domain.ErrNotFound) {
			mt.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("unknown relation", func(mt *mtest.T) {
		repo := NewCategoryRepository(mt.DB)

		if _, err := repo.FindByIDPopulated(context.Background(), primitive.NewObjectID().Hex(), "authors"); err == nil {
			mt.Error("expected an error for an unknown relation")
		}
	})
}
