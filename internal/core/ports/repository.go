package ports

import "context"

// Patch is a partial update keyed by stored field name. Fields absent from
// the patch are left unchanged.
type Patch map[string]any

// Repository is the persistence contract the generic resource factory is
// built on. Implementations return *domain.NotFoundError for unknown ids and
// *domain.InvalidIDError for malformed ones.
type Repository[T any] interface {
	Create(ctx context.Context, doc *T) (*T, error)
	FindAll(ctx context.Context) ([]*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindByIDAndUpdate(ctx context.Context, id string, patch Patch) (*T, error)
	FindByIDAndDelete(ctx context.Context, id string) (*T, error)
}

// RelationFinder loads a document with one of its reference lists expanded.
type RelationFinder[V any] interface {
	FindByIDPopulated(ctx context.Context, id, relation string) (*V, error)
}

// CategoryRefField is the stored field holding an entity's category reference.
const CategoryRefField = "category"

// ListResult is the outcome of a full listing.
type ListResult[T any] struct {
	Count int
	Items []*T
}

// ResourceService is the generic CRUD surface the HTTP layer drives.
type ResourceService[T any] interface {
	Name() string
	ListAll(ctx context.Context) (*ListResult[T], error)
	GetOne(ctx context.Context, id string) (*T, error)
	CreateOne(ctx context.Context, doc *T) (*T, error)
	UpdateOne(ctx context.Context, id string, patch Patch) (*T, error)
	DeleteOne(ctx context.Context, id string) error
}

// RelatedResourceService adds the expanded single-document read.
type RelatedResourceService[T, V any] interface {
	ResourceService[T]
	GetOneWithRelation(ctx context.Context, id, relation string) (*V, error)
}
