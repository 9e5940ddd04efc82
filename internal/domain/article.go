package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article is category-partitioned editorial content. Under limited_count
// access only the latest published article per category is visible in full.
type Article struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Slug          string     `db:"slug" json:"slug"`
	Excerpt       *string    `db:"excerpt" json:"excerpt,omitempty"`
	Content       *string    `db:"content" json:"content,omitempty"`
	CoverImageURL *string    `db:"cover_image_url" json:"cover_image_url,omitempty"`
	CategoryID    uuid.UUID  `db:"category_id" json:"category_id"`
	PublishedAt   *time.Time `db:"published_at" json:"published_at,omitempty"`
	Locked        bool       `db:"-" json:"locked"`
	LockedMessage *string    `db:"-" json:"locked_message,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

func (a *Article) IsPublished() bool {
	return a.PublishedAt != nil && !a.PublishedAt.After(time.Now())
}
