package domain

// CategoryReferencer is implemented by entities that point at a Category and
// must appear in that category's answer list.
type CategoryReferencer interface {
	EntityID() string
	CategoryRef() string
}

// DependentHolder is implemented by entities that cannot be deleted while
// other entities still depend on them.
type DependentHolder interface {
	DependentCount() int
}
