package domain

import "time"

// Category groups answers. Answers holds the ids of every Answer whose
// Category field points back at this category.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NameAr    string    `json:"nameAr"`
	Answers   []string  `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DependentCount implements DependentHolder.
func (c *Category) DependentCount() int { return len(c.Answers) }

// CategoryWithAnswers is a Category with its answer references expanded.
type CategoryWithAnswers struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NameAr    string    `json:"nameAr"`
	Answers   []*Answer `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Category) EntityID() string { return c.ID }
