package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment keeps the author's display name as it was at creation time.
// Listings re-resolve the live name and fall back to this snapshot.
type Comment struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	TaskID     uuid.UUID  `json:"task_id" db:"task_id"`
	Author     uuid.UUID  `json:"author" db:"author"`
	AuthorName string     `json:"author_name" db:"author_name"`
	Text       string     `json:"text" db:"text"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (c *Comment) Deleted() bool {
	return c.DeletedAt != nil
}
