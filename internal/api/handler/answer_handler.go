package handler

import (
	"time"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

type createAnswerRequest struct {
	Title     string `json:"title"     validate:"required,min=3"`
	TitleAr   string `json:"titleAr"   validate:"required,min=3"`
	Content   string `json:"content"   validate:"required"`
	ContentAr string `json:"contentAr" validate:"required"`
	Category  string `json:"category"  validate:"required,mongodb"`
}

func (r createAnswerRequest) toEntity(now time.Time) *domain.Answer {
	return &domain.Answer{
		Title:     r.Title,
		TitleAr:   r.TitleAr,
		Content:   r.Content,
		ContentAr: r.ContentAr,
		Category:  r.Category,
		CreatedAt: now,
	}
}

type updateAnswerRequest struct {
	Title     *string `json:"title"     validate:"omitempty,min=3"`
	TitleAr   *string `json:"titleAr"   validate:"omitempty,min=3"`
	Content   *string `json:"content"`
	ContentAr *string `json:"contentAr"`
	Category  *string `json:"category"  validate:"omitempty,mongodb"`
}

func (r updateAnswerRequest) toPatch(time.Time) ports.Patch {
	patch := ports.Patch{}
	set := func(key string, v *string) {
		if v != nil {
			patch[key] = *v
		}
	}
	set("title", r.Title)
	set("title_ar", r.TitleAr)
	set("content", r.Content)
	set("content_ar", r.ContentAr)
	set(ports.CategoryRefField, r.Category)
	return patch
}

// AnswerHandler serves /answers.
type AnswerHandler = ResourceHandler[domain.Answer, createAnswerRequest, updateAnswerRequest]

func NewAnswerHandler(answers ports.AnswerService) *AnswerHandler {
	return NewResourceHandler[domain.Answer, createAnswerRequest, updateAnswerRequest](answers)
}
