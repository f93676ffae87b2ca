package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/faqhub/knowledge-base/internal/core/ports"
)

// createRequest builds a new entity from a validated request body.
type createRequest[T any] interface {
	toEntity(now time.Time) *T
}

// updateRequest turns a validated request body into a partial update.
type updateRequest interface {
	toPatch(now time.Time) ports.Patch
}

// ResourceHandler exposes a ports.ResourceService as the five CRUD routes.
// C and U are the request body types for create and update.
type ResourceHandler[T any, C createRequest[T], U updateRequest] struct {
	service ports.ResourceService[T]
	now     func() time.Time
}

func NewResourceHandler[T any, C createRequest[T], U updateRequest](service ports.ResourceService[T]) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{service: service, now: time.Now}
}

func (h *ResourceHandler[T, C, U]) List(c echo.Context) error {
	res, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respondList(c, res)
}

func (h *ResourceHandler[T, C, U]) Get(c echo.Context) error {
	doc, err := h.service.GetOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, doc)
}

func (h *ResourceHandler[T, C, U]) Create(c echo.Context) error {
	var req C
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := h.service.CreateOne(c.Request().Context(), req.toEntity(h.now().UTC()))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, doc)
}

func (h *ResourceHandler[T, C, U]) Update(c echo.Context) error {
	var req U
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := h.service.UpdateOne(c.Request().Context(), c.Param("id"), req.toPatch(h.now().UTC()))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, doc)
}

func (h *ResourceHandler[T, C, U]) Delete(c echo.Context) error {
	if err := h.service.DeleteOne(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
