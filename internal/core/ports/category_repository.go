package ports

import (
	"context"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

// CategoryLinker maintains the answer list stored on each category.
type CategoryLinker interface {
	Exists(ctx context.Context, categoryID string) (bool, error)
	// AddAnswer adds answerID to the category's list unless it is already there.
	AddAnswer(ctx context.Context, categoryID, answerID string) error
	// RemoveAnswer removes every occurrence of answerID from the list.
	RemoveAnswer(ctx context.Context, categoryID, answerID string) error
}

// CategoryRepository is the full persistence surface for categories.
type CategoryRepository interface {
	Repository[domain.Category]
	RelationFinder[domain.CategoryWithAnswers]
	CategoryLinker
}

// AnswerRepository is the full persistence surface for answers.
type AnswerRepository interface {
	Repository[domain.Answer]
	FindByCategory(ctx context.Context, categoryID string) ([]*domain.Answer, error)
}

// AnswerService is the answer resource plus the per-category listing.
type AnswerService interface {
	ResourceService[domain.Answer]
	ListByCategory(ctx context.Context, categoryID string) (*ListResult[domain.Answer], error)
}
