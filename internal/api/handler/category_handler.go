package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

const relationAnswers = "answers"

type createCategoryRequest struct {
	Name   string `json:"name"   validate:"required,min=2"`
	NameAr string `json:"nameAr" validate:"required,min=2"`
}

func (r createCategoryRequest) toEntity(now time.Time) *domain.Category {
	return &domain.Category{
		Name:      r.Name,
		NameAr:    r.NameAr,
		Answers:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type updateCategoryRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=2"`
	NameAr *string `json:"nameAr" validate:"omitempty,min=2"`
}

func (r updateCategoryRequest) toPatch(now time.Time) ports.Patch {
	patch := ports.Patch{"updated_at": now}
	if r.Name != nil {
		patch["name"] = *r.Name
	}
	if r.NameAr != nil {
		patch["name_ar"] = *r.NameAr
	}
	return patch
}

// CategoryHandler serves /categories.
type CategoryHandler struct {
	*ResourceHandler[domain.Category, createCategoryRequest, updateCategoryRequest]
	categories ports.RelatedResourceService[domain.Category, domain.CategoryWithAnswers]
	answers    ports.AnswerService
}

func NewCategoryHandler(categories ports.RelatedResourceService[domain.Category, domain.CategoryWithAnswers], answers ports.AnswerService) *CategoryHandler {
	return &CategoryHandler{
		ResourceHandler: NewResourceHandler[domain.Category, createCategoryRequest, updateCategoryRequest](categories),
		categories:      categories,
		answers:         answers,
	}
}

// WithAnswers returns a category with its answers expanded in list order.
//
// @Summary  Get category with answers
// @Tags     categories
// @Produce  json
// @Param    id   path      string  true  "Category ID"
// @Success  200  {object}  envelope
// @Failure  400  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Router   /categories/{id}/with-answers [get]
func (h *CategoryHandler) WithAnswers(c echo.Context) error {
	doc, err := h.categories.GetOneWithRelation(c.Request().Context(), c.Param("id"), relationAnswers)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, doc)
}

// Answers lists the answers that reference the category.
//
// @Summary  List answers of a category
// @Tags     categories
// @Produce  json
// @Param    id   path      string  true  "Category ID"
// @Success  200  {object}  envelope
// @Failure  400  {object}  map[string]string
// @Router   /categories/{id}/answers [get]
func (h *CategoryHandler) Answers(c echo.Context) error {
	res, err := h.answers.ListByCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respondList(c, res)
}
