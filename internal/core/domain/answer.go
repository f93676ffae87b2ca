package domain

import "time"

// Answer is a single knowledge-base entry. It always belongs to exactly one
// Category.
type Answer struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TitleAr   string    `json:"titleAr"`
	Content   string    `json:"content"`
	ContentAr string    `json:"contentAr"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryRef implements CategoryReferencer.
func (a *Answer) CategoryRef() string { return a.Category }

func (a *Answer) EntityID() string { return a.ID }
