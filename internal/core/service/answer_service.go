package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

// AnswerService is the answer resource with category-linked writes.
type AnswerService struct {
	*Resource[domain.Answer]
	repo ports.AnswerRepository
}

func NewAnswerService(repo ports.AnswerRepository, categories ports.CategoryLinker, log zerolog.Logger) *AnswerService {
	return &AnswerService{
		Resource: NewResource[domain.Answer]("answer", repo, categories, log),
		repo:     repo,
	}
}

// ListByCategory returns the answers pointing at categoryID. An unknown
// category yields an empty list.
func (s *AnswerService) ListByCategory(ctx context.Context, categoryID string) (*ports.ListResult[domain.Answer], error) {
	items, err := s.repo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list answers of category %s: %w", categoryID, err)
	}
	if items == nil {
		items = []*domain.Answer{}
	}
	return &ports.ListResult[domain.Answer]{Count: len(items), Items: items}, nil
}

// NewCategoryService builds the category resource. Categories expand their
// answers and cannot be deleted while they still hold any.
func NewCategoryService(repo ports.CategoryRepository, log zerolog.Logger) *RelatedResource[domain.Category, domain.CategoryWithAnswers] {
	return NewRelatedResource[domain.Category, domain.CategoryWithAnswers](NewResource[domain.Category]("category", repo, nil, log), repo)
}
