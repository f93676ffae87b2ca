package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
	"github.com/faqhub/knowledge-base/internal/pkg/metrics"
)

// Resource provides the canonical CRUD operations for one entity type.
//
// Entities implementing domain.CategoryReferencer are kept in their
// category's answer list on create, update and delete. Entities implementing
// domain.DependentHolder cannot be deleted while they have dependents.
//
// The list is maintained with sequential writes, not a transaction: a failed
// link after create is compensated by deleting the new document, a failed
// unlink is surfaced to the caller.
type Resource[T any] struct {
	name  string
	repo  ports.Repository[T]
	links ports.CategoryLinker
	log   zerolog.Logger
}

// NewResource builds a Resource. links may be nil for entity types that do
// not reference a category.
func NewResource[T any](name string, repo ports.Repository[T], links ports.CategoryLinker, log zerolog.Logger) *Resource[T] {
	return &Resource[T]{
		name:  name,
		repo:  repo,
		links: links,
		log:   log.With().Str("resource", name).Logger(),
	}
}

func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) ListAll(ctx context.Context) (*ports.ListResult[T], error) {
	items, err := r.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	if items == nil {
		items = []*T{}
	}
	return &ports.ListResult[T]{Count: len(items), Items: items}, nil
}

func (r *Resource[T]) GetOne(ctx context.Context, id string) (*T, error) {
	return r.repo.FindByID(ctx, id)
}

func (r *Resource[T]) CreateOne(ctx context.Context, doc *T) (*T, error) {
	var ref string
	if r.links != nil {
		ref = categoryRef(doc)
	}
	if ref != "" {
		if err := r.requireCategory(ctx, ref); err != nil {
			return nil, err
		}
	}

	created, err := r.repo.Create(ctx, doc)
	if err != nil {
		return nil, err
	}

	if ref != "" {
		id := entityID(created)
		if err := r.links.AddAnswer(ctx, ref, id); err != nil {
			return nil, r.compensateCreate(ctx, id, ref, err)
		}
	}

	metrics.ResourceMutationsTotal.WithLabelValues(r.name, "create").Inc()
	r.log.Info().Str("id", entityID(created)).Msg("created")
	return created, nil
}

// compensateCreate removes a document whose category link could not be
// written, so no answer exists outside its category's list.
func (r *Resource[T]) compensateCreate(ctx context.Context, id, categoryID string, linkErr error) error {
	_, delErr := r.repo.FindByIDAndDelete(ctx, id)
	if delErr != nil {
		metrics.CategoryLinkFailuresTotal.WithLabelValues("add", "false").Inc()
		r.log.Error().
			Err(linkErr).
			AnErr("compensation_error", delErr).
			Str("id", id).
			Str("category", categoryID).
			Msg("category link failed and orphan could not be removed")
		return errors.Join(
			fmt.Errorf("link %s %s to category %s: %w", r.name, id, categoryID, linkErr),
			fmt.Errorf("remove orphan %s %s: %w", r.name, id, delErr),
		)
	}

	metrics.CategoryLinkFailuresTotal.WithLabelValues("add", "true").Inc()
	r.log.Warn().Err(linkErr).Str("id", id).Str("category", categoryID).Msg("category link failed, create rolled back")
	return fmt.Errorf("link %s %s to category %s: %w", r.name, id, categoryID, linkErr)
}

// UpdateOne applies a partial update. Moving a referencing entity to another
// category updates both categories' lists once the document is written.
func (r *Resource[T]) UpdateOne(ctx context.Context, id string, patch ports.Patch) (*T, error) {
	newRef, moving := patch[ports.CategoryRefField].(string)
	moving = moving && r.links != nil

	var before *T
	if moving {
		var err error
		if before, err = r.repo.FindByID(ctx, id); err != nil {
			return nil, err
		}
		if err := r.requireCategory(ctx, newRef); err != nil {
			return nil, err
		}
	}

	updated, err := r.repo.FindByIDAndUpdate(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if moving {
		if oldRef := categoryRef(before); oldRef != newRef {
			if err := r.relink(ctx, id, oldRef, newRef); err != nil {
				return nil, err
			}
		}
	}

	metrics.ResourceMutationsTotal.WithLabelValues(r.name, "update").Inc()
	return updated, nil
}

func (r *Resource[T]) relink(ctx context.Context, id, from, to string) error {
	if from != "" {
		if err := r.links.RemoveAnswer(ctx, from, id); err != nil {
			metrics.CategoryLinkFailuresTotal.WithLabelValues("remove", "false").Inc()
			return fmt.Errorf("unlink %s %s from category %s: %w", r.name, id, from, err)
		}
	}
	if err := r.links.AddAnswer(ctx, to, id); err != nil {
		metrics.CategoryLinkFailuresTotal.WithLabelValues("add", "false").Inc()
		return fmt.Errorf("link %s %s to category %s: %w", r.name, id, to, err)
	}
	r.log.Info().Str("id", id).Str("from", from).Str("to", to).Msg("moved to another category")
	return nil
}

// DeleteOne removes a document unless it still has dependents.
func (r *Resource[T]) DeleteOne(ctx context.Context, id string) error {
	doc, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if holder, ok := any(doc).(domain.DependentHolder); ok {
		if n := holder.DependentCount(); n > 0 {
			return &domain.DependentsError{Resource: r.name, ID: id, Count: n}
		}
	}

	if _, err := r.repo.FindByIDAndDelete(ctx, id); err != nil {
		return err
	}

	if ref := categoryRef(doc); ref != "" && r.links != nil {
		if err := r.links.RemoveAnswer(ctx, ref, id); err != nil {
			metrics.CategoryLinkFailuresTotal.WithLabelValues("remove", "false").Inc()
			r.log.Error().Err(err).Str("id", id).Str("category", ref).Msg("deleted but category still references it")
			return fmt.Errorf("unlink %s %s from category %s: %w", r.name, id, ref, err)
		}
	}

	metrics.ResourceMutationsTotal.WithLabelValues(r.name, "delete").Inc()
	r.log.Info().Str("id", id).Msg("deleted")
	return nil
}

// requireCategory fails with a validation error when categoryID does not
// name an existing category. It runs before any write.
func (r *Resource[T]) requireCategory(ctx context.Context, categoryID string) error {
	if r.links == nil {
		return nil
	}
	ok, err := r.links.Exists(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return &domain.InvalidIDError{Field: ports.CategoryRefField, Value: categoryID}
		}
		return fmt.Errorf("check category %s: %w", categoryID, err)
	}
	if !ok {
		return domain.NewValidationError(ports.CategoryRefField, fmt.Sprintf("No category for this id: %s", categoryID))
	}
	return nil
}

func categoryRef(doc any) string {
	if ref, ok := doc.(domain.CategoryReferencer); ok {
		return ref.CategoryRef()
	}
	return ""
}

func entityID(doc any) string {
	if e, ok := doc.(interface{ EntityID() string }); ok {
		return e.EntityID()
	}
	return ""
}

// RelatedResource adds GetOneWithRelation to a Resource.
type RelatedResource[T, V any] struct {
	*Resource[T]
	related ports.RelationFinder[V]
}

func NewRelatedResource[T, V any](res *Resource[T], related ports.RelationFinder[V]) *RelatedResource[T, V] {
	return &RelatedResource[T, V]{Resource: res, related: related}
}

// GetOneWithRelation returns the document with relation expanded.
func (r *RelatedResource[T, V]) GetOneWithRelation(ctx context.Context, id, relation string) (*V, error) {
	return r.related.FindByIDPopulated(ctx, id, relation)
}
