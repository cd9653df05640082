package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a published content item. Posts are mutated only by the mutation
// worker applying commands from the broker, never directly by request handlers.
// ID is immutable once assigned; UpdatedAt increases with every applied mutation.
type Post struct {
	ID         uuid.UUID
	Title      string
	Body       string
	AuthorID   uuid.UUID
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Actor identifies the user on whose behalf a mutation is issued.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// PostFilter narrows a post list query.
type PostFilter struct {
	AuthorID *uuid.UUID
	Limit    int
	Offset   int
}
