package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
	"github.com/heartmarshall/inkwell-backend/internal/service/post"
)

// postService is the slice of the post service the HTTP layer consumes.
type postService interface {
	EnqueueCreate(ctx context.Context, actor domain.Actor, in post.CreatePostInput) (uuid.UUID, error)
	EnqueueUpdate(ctx context.Context, actor domain.Actor, postID uuid.UUID, in post.UpdatePostInput) error
	EnqueueDelete(ctx context.Context, actor domain.Actor, postID uuid.UUID) error
	GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Post, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Post, error)
}

// PostHandler serves the post read endpoints and the mutation enqueue
// endpoints. Mutations return 202: the command is accepted onto the broker,
// not yet applied to storage.
type PostHandler struct {
	svc postService
	log *slog.Logger
}

func NewPostHandler(svc postService, log *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: log.With("handler", "post")}
}

type createPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type updatePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

type enqueuedResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type postResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type postListResponse struct {
	Posts []postResponse `json:"posts"`
}

// Create handles POST /v1/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.svc.EnqueueCreate(r.Context(), actor, post.CreatePostInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, enqueuedResponse{ID: id, Status: "accepted"})
}

// Update handles PUT /v1/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.EnqueueUpdate(r.Context(), actor, id, post.UpdatePostInput{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, enqueuedResponse{ID: id, Status: "accepted"})
}

// Delete handles DELETE /v1/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.EnqueueDelete(r.Context(), actor, id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, enqueuedResponse{ID: id, Status: "accepted"})
}

// Get handles GET /v1/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(p))
}

// List handles GET /v1/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	posts, err := h.svc.ListAll(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostListResponse(posts))
}

// ListMine handles GET /v1/posts/my: the authenticated actor's posts.
func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	posts, err := h.svc.ListByAuthor(r.Context(), actor.ID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostListResponse(posts))
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPostListResponse(posts []domain.Post) postListResponse {
	out := postListResponse{Posts: make([]postResponse, 0, len(posts))}
	for i := range posts {
		out.Posts = append(out.Posts, toPostResponse(&posts[i]))
	}
	return out
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
