package post

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

// postView is the serialized read model stored in the cache.
type postView struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toView(p domain.Post) postView {
	return postView{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (v postView) toDomain() domain.Post {
	return domain.Post{
		ID:         v.ID,
		Title:      v.Title,
		Body:       v.Body,
		AuthorID:   v.AuthorID,
		AuthorName: v.AuthorName,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}
