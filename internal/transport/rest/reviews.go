package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
	"github.com/heartmarshall/inkwell-backend/internal/service/review"
)

// reviewService is the slice of the review service the HTTP layer consumes.
type reviewService interface {
	StartReview(ctx context.Context, postID, userID uuid.UUID, autoApply bool) (*domain.ReviewSession, *domain.ReviewResult, error)
	GetSession(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, *domain.ReviewResult, error)
	ListSessions(ctx context.Context, postID uuid.UUID) ([]domain.ReviewSession, error)
	ApplyRevision(ctx context.Context, sessionID uuid.UUID, override *string) error
	RewritePost(ctx context.Context, postID uuid.UUID) (*review.RewriteOutput, error)
	StyleCheckPost(ctx context.Context, postID uuid.UUID) (string, error)
}

// ReviewHandler serves the agent review endpoints. StartReview runs the whole
// pipeline inside the request, so these routes sit behind the rate limiter.
type ReviewHandler struct {
	svc reviewService
	log *slog.Logger
}

func NewReviewHandler(svc reviewService, log *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: log.With("handler", "review")}
}

type startReviewRequest struct {
	AutoApply bool `json:"auto_apply"`
}

type applyRevisionRequest struct {
	Body *string `json:"body"`
}

type reviewResultResponse struct {
	IssueSummary      string `json:"issue_summary"`
	TechnicalIssues   string `json:"technical_issues"`
	StyleIssues       string `json:"style_issues"`
	SuggestedRevision string `json:"suggested_revision,omitempty"`
	DiffView          string `json:"diff_view,omitempty"`
}

type reviewSessionResponse struct {
	ID          uuid.UUID             `json:"id"`
	PostID      uuid.UUID             `json:"post_id"`
	UserID      uuid.UUID             `json:"user_id"`
	Status      string                `json:"status"`
	AutoApply   bool                  `json:"auto_apply"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	Result      *reviewResultResponse `json:"result,omitempty"`
}

type reviewSessionListResponse struct {
	Sessions []reviewSessionResponse `json:"sessions"`
}

type rewriteResponse struct {
	SuggestedRevision string `json:"suggested_revision"`
	DiffView          string `json:"diff_view,omitempty"`
}

type styleCheckResponse struct {
	StyleIssues string `json:"style_issues"`
}

// Start handles POST /v1/reviews/posts/{post_id}. The pipeline runs
// synchronously; the session is returned in its terminal state.
func (h *ReviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	postID, ok := pathUUID(w, r, "post_id")
	if !ok {
		return
	}

	var req startReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, result, err := h.svc.StartReview(r.Context(), postID, actor.ID, req.AutoApply)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session, result))
}

// GetSession handles GET /v1/reviews/sessions/{id}.
func (h *ReviewHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	session, result, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session, result))
}

// ListSessions handles GET /v1/reviews/posts/{post_id}/sessions. Results are
// not joined in; fetch a single session for its result.
func (h *ReviewHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "post_id")
	if !ok {
		return
	}

	sessions, err := h.svc.ListSessions(r.Context(), postID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := reviewSessionListResponse{Sessions: make([]reviewSessionResponse, 0, len(sessions))}
	for i := range sessions {
		out.Sessions = append(out.Sessions, toSessionResponse(&sessions[i], nil))
	}
	writeJSON(w, http.StatusOK, out)
}

// Apply handles POST /v1/reviews/sessions/{id}/apply. The revision lands on
// the broker as an update command, so the response is 202.
func (h *ReviewHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req applyRevisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.ApplyRevision(r.Context(), id, req.Body); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, enqueuedResponse{ID: id, Status: "accepted"})
}

// Rewrite handles POST /v1/reviews/posts/{post_id}/rewrite.
func (h *ReviewHandler) Rewrite(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	postID, ok := pathUUID(w, r, "post_id")
	if !ok {
		return
	}

	out, err := h.svc.RewritePost(r.Context(), postID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, rewriteResponse{
		SuggestedRevision: out.SuggestedRevision,
		DiffView:          out.DiffView,
	})
}

// StyleCheck handles POST /v1/reviews/posts/{post_id}/style-check.
func (h *ReviewHandler) StyleCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	postID, ok := pathUUID(w, r, "post_id")
	if !ok {
		return
	}

	issues, err := h.svc.StyleCheckPost(r.Context(), postID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, styleCheckResponse{StyleIssues: issues})
}

func toSessionResponse(s *domain.ReviewSession, res *domain.ReviewResult) reviewSessionResponse {
	out := reviewSessionResponse{
		ID:          s.ID,
		PostID:      s.PostID,
		UserID:      s.UserID,
		Status:      s.Status.String(),
		AutoApply:   s.AutoApply,
		CreatedAt:   s.CreatedAt,
		CompletedAt: s.CompletedAt,
	}
	if res != nil {
		out.Result = &reviewResultResponse{
			IssueSummary:      res.IssueSummary,
			TechnicalIssues:   res.TechnicalIssues,
			StyleIssues:       res.StyleIssues,
			SuggestedRevision: res.SuggestedRevision,
			DiffView:          res.DiffView,
		}
	}
	return out
}
