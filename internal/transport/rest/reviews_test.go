package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
	"github.com/heartmarshall/inkwell-backend/internal/service/review"
)

type reviewServiceMock struct {
	StartReviewFunc    func(ctx context.Context, postID, userID uuid.UUID, autoApply bool) (*domain.ReviewSession, *domain.ReviewResult, error)
	GetSessionFunc     func(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, *domain.ReviewResult, error)
	ListSessionsFunc   func(ctx context.Context, postID uuid.UUID) ([]domain.ReviewSession, error)
	ApplyRevisionFunc  func(ctx context.Context, sessionID uuid.UUID, override *string) error
	RewritePostFunc    func(ctx context.Context, postID uuid.UUID) (*review.RewriteOutput, error)
	StyleCheckPostFunc func(ctx context.Context, postID uuid.UUID) (string, error)
}

func (m *reviewServiceMock) StartReview(ctx context.Context, postID, userID uuid.UUID, autoApply bool) (*domain.ReviewSession, *domain.ReviewResult, error) {
	return m.StartReviewFunc(ctx, postID, userID, autoApply)
}

func (m *reviewServiceMock) GetSession(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, *domain.ReviewResult, error) {
	return m.GetSessionFunc(ctx, id)
}

func (m *reviewServiceMock) ListSessions(ctx context.Context, postID uuid.UUID) ([]domain.ReviewSession, error) {
	return m.ListSessionsFunc(ctx, postID)
}

func (m *reviewServiceMock) ApplyRevision(ctx context.Context, sessionID uuid.UUID, override *string) error {
	return m.ApplyRevisionFunc(ctx, sessionID, override)
}

func (m *reviewServiceMock) RewritePost(ctx context.Context, postID uuid.UUID) (*review.RewriteOutput, error) {
	return m.RewritePostFunc(ctx, postID)
}

func (m *reviewServiceMock) StyleCheckPost(ctx context.Context, postID uuid.UUID) (string, error) {
	return m.StyleCheckPostFunc(ctx, postID)
}

func completedSession(postID, userID uuid.UUID) *domain.ReviewSession {
	now := time.Now()
	return &domain.ReviewSession{
		ID:          uuid.New(),
		PostID:      postID,
		UserID:      userID,
		Status:      domain.ReviewStatusCompleted,
		CreatedAt:   now,
		CompletedAt: &now,
	}
}

func TestReviewStart_Created(t *testing.T) {
	t.Parallel()

	actorID := uuid.New()
	postID := uuid.New()
	session := completedSession(postID, actorID)
	result := &domain.ReviewResult{
		SessionID:       session.ID,
		IssueSummary:    "looks fine",
		TechnicalIssues: "none",
	}

	svc := &reviewServiceMock{
		StartReviewFunc: func(_ context.Context, gotPost, gotUser uuid.UUID, autoApply bool) (*domain.ReviewSession, *domain.ReviewResult, error) {
			if gotPost != postID {
				t.Errorf("expected post %s, got %s", postID, gotPost)
			}
			if gotUser != actorID {
				t.Errorf("expected user %s, got %s", actorID, gotUser)
			}
			if !autoApply {
				t.Error("expected auto_apply true")
			}
			return session, result, nil
		},
	}
	h := NewReviewHandler(svc, testLogger())

	req := authedRequest(http.MethodPost, "/v1/reviews/posts/"+postID.String(), `{"auto_apply":true}`, actorID)
	req.SetPathValue("post_id", postID.String())
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var resp reviewSessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != session.ID {
		t.Errorf("expected session %s, got %s", session.ID, resp.ID)
	}
	if resp.Status != "COMPLETED" {
		t.Errorf("expected status COMPLETED, got %q", resp.Status)
	}
	if resp.Result == nil || resp.Result.IssueSummary != "looks fine" {
		t.Errorf("unexpected result: %+v", resp.Result)
	}
}

func TestReviewStart_EmptyBodyAllowed(t *testing.T) {
	t.Parallel()

	postID := uuid.New()
	svc := &reviewServiceMock{
		StartReviewFunc: func(_ context.Context, _, userID uuid.UUID, autoApply bool) (*domain.ReviewSession, *domain.ReviewResult, error) {
			if autoApply {
				t.Error("expected auto_apply false for empty body")
			}
			return completedSession(postID, userID), nil, nil
		},
	}
	h := NewReviewHandler(svc, testLogger())

	req := authedRequest(http.MethodPost, "/v1/reviews/posts/"+postID.String(), "", uuid.New())
	req.SetPathValue("post_id", postID.String())
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
}

func TestReviewStart_Unauthenticated(t *testing.T) {
	t.Parallel()

	h := NewReviewHandler(&reviewServiceMock{}, testLogger())

	postID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reviews/posts/"+postID.String(), nil)
	req.SetPathValue("post_id", postID.String())
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestReviewStart_PostNotFound(t *testing.T) {
	t.Parallel()

	svc := &reviewServiceMock{
		StartReviewFunc: func(context.Context, uuid.UUID, uuid.UUID, bool) (*domain.ReviewSession, *domain.ReviewResult, error) {
			return nil, nil, domain.ErrNotFound
		},
	}
	h := NewReviewHandler(svc, testLogger())

	postID := uuid.New()
	req := authedRequest(http.MethodPost, "/v1/reviews/posts/"+postID.String(), "", uuid.New())
	req.SetPathValue("post_id", postID.String())
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestReviewGetSession_OK(t *testing.T) {
	t.Parallel()

	session := completedSession(uuid.New(), uuid.New())
	svc := &reviewServiceMock{
		GetSessionFunc: func(_ context.Context, id uuid.UUID) (*domain.ReviewSession, *domain.ReviewResult, error) {
			if id != session.ID {
				t.Errorf("expected session %s, got %s", session.ID, id)
			}
			return session, nil, nil
		},
	}
	h := NewReviewHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/reviews/sessions/"+session.ID.String(), nil)
	req.SetPathValue("id", session.ID.String())
	rec := httptest.NewRecorder()

	h.GetSession(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp reviewSessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result != nil {
		t.Error("expected no result for pending-result session")
	}
}

func TestReviewGetSession_NotFound(t *testing.T) {
	t.Parallel()

	svc := &reviewServiceMock{
		GetSessionFunc: func(context.Context, uuid.UUID) (*domain.ReviewSession, *domain.ReviewResult, error) {
			return nil, nil, domain.ErrNotFound
		},
	}
	h := NewReviewHandler(svc, testLogger())

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reviews/sessions/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.GetSession(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestReviewListSessions_OK(t *testing.T) {
	t.Parallel()

	postID := uuid.New()
	svc := &reviewServiceMock{
		ListSessionsFunc: func(_ context.Context, id uuid.UUID) ([]domain.ReviewSession, error) {
			if id != postID {
				t.Errorf("expected post %s, got %s", postID, id)
			}
			return []domain.ReviewSession{*completedSession(postID, uuid.New())}, nil
		},
	}
	h := NewReviewHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/reviews/posts/"+postID.String()+"/sessions", nil)
	req.SetPathValue("post_id", postID.String())
	rec := httptest.NewRecorder()

	h.ListSessions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp reviewSessionListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Sessions) != 1 {
		t.Errorf("expected 1 session, got %d", len(resp.Sessions))
	}
}

func TestReviewApply_Accepted(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	svc := &reviewServiceMock{
		ApplyRevisionFunc: func(_ context.Context, id uuid.UUID, override *string) error {
			if id != sessionID {
				t.Errorf("expected session %s, got %s", sessionID, id)
			}
			if override != nil {
				t.Errorf("expected nil override, got %q", *override)
			}
			return nil
		},
	}
	h := NewReviewHandler(svc, testLogger())

	req := authedRequest(http.MethodPost, "/v1/reviews/sessions/"+sessionID.String()+"/apply", "", uuid.New())
	req.SetPathValue("id", sessionID.String())
	rec := httptest.NewRecorder()

	h.Apply(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
}

func TestReviewApply_Override(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()
	svc := &reviewServiceMock{
		ApplyRevisionFunc: func(_ context.Context, _ uuid.UUID, override *string) error {
			if override == nil || *override != "edited body" {
				t.Errorf("expected override 'edited body', got %v", override)
			}
			return nil
		},
	}
	h := NewReviewHandler(svc, testLogger())

	req := authedRequest(http.MethodPost, "/v1/reviews/sessions/"+sessionID.String()+"/apply", `{"body":"edited body"}`, uuid.New())
	req.SetPathValue("id", sessionID.String())
	rec := httptest.NewRecorder()

	h.Apply(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
}

func TestReviewApply_Conflict(t *testing.T) {
	t.Parallel()

	svc := &reviewServiceMock{
		ApplyRevisionFunc: func(context.Context, uuid.UUID, *string) error {
			return domain.ErrConflict
		},
	}
	h := NewReviewHandler(svc, testLogger())

	id := uuid.New()
	req := authedRequest(http.MethodPost, "/v1/reviews/sessions/"+id.String()+"/apply", "", uuid.New())
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.Apply(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestReviewRewrite_OK(t *testing.T) {
	t.Parallel()

	postID := uuid.New()
	svc := &reviewServiceMock{
		RewritePostFunc: func(_ context.Context, id uuid.UUID) (*review.RewriteOutput, error) {
			if id != postID {
				t.Errorf("expected post %s, got %s", postID, id)
			}
			return &review.RewriteOutput{SuggestedRevision: "better text", DiffView: "--- original"}, nil
		},
	}
	h := NewReviewHandler(svc, testLogger())

	req := authedRequest(http.MethodPost, "/v1/reviews/posts/"+postID.String()+"/rewrite", "", uuid.New())
	req.SetPathValue("post_id", postID.String())
	rec := httptest.NewRecorder()

	h.Rewrite(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp rewriteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SuggestedRevision != "better text" {
		t.Errorf("unexpected revision: %q", resp.SuggestedRevision)
	}
}

func TestReviewStyleCheck_OK(t *testing.T) {
	t.Parallel()

	postID := uuid.New()
	svc := &reviewServiceMock{
		StyleCheckPostFunc: func(_ context.Context, id uuid.UUID) (string, error) {
			return "passive voice in paragraph 2", nil
		},
	}
	h := NewReviewHandler(svc, testLogger())

	req := authedRequest(http.MethodPost, "/v1/reviews/posts/"+postID.String()+"/style-check", "", uuid.New())
	req.SetPathValue("post_id", postID.String())
	rec := httptest.NewRecorder()

	h.StyleCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp styleCheckResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.StyleIssues != "passive voice in paragraph 2" {
		t.Errorf("unexpected issues: %q", resp.StyleIssues)
	}
}

func TestReviewStyleCheck_Unavailable(t *testing.T) {
	t.Parallel()

	svc := &reviewServiceMock{
		StyleCheckPostFunc: func(context.Context, uuid.UUID) (string, error) {
			return "", domain.ErrUnavailable
		},
	}
	h := NewReviewHandler(svc, testLogger())

	postID := uuid.New()
	req := authedRequest(http.MethodPost, "/v1/reviews/posts/"+postID.String()+"/style-check", "", uuid.New())
	req.SetPathValue("post_id", postID.String())
	rec := httptest.NewRecorder()

	h.StyleCheck(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}
