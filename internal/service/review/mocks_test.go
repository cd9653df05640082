package review

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
	"github.com/heartmarshall/inkwell-backend/internal/service/post"
)

type generatorMock struct {
	TechnicalReviewFunc func(ctx context.Context, title, body string) (string, error)
	StyleCheckFunc      func(ctx context.Context, title, body string) (string, error)
	SummarizeFunc       func(ctx context.Context, technical, style string) (string, error)
	RewriteFunc         func(ctx context.Context, title, body, technical, style string) (string, error)

	calls struct {
		TechnicalReview int
		StyleCheck      int
		Summarize       int
		Rewrite         int
	}
	mu sync.Mutex
}

func (m *generatorMock) TechnicalReview(ctx context.Context, title, body string) (string, error) {
	m.mu.Lock()
	m.calls.TechnicalReview++
	m.mu.Unlock()
	return m.TechnicalReviewFunc(ctx, title, body)
}

func (m *generatorMock) StyleCheck(ctx context.Context, title, body string) (string, error) {
	m.mu.Lock()
	m.calls.StyleCheck++
	m.mu.Unlock()
	return m.StyleCheckFunc(ctx, title, body)
}

func (m *generatorMock) Summarize(ctx context.Context, technical, style string) (string, error) {
	m.mu.Lock()
	m.calls.Summarize++
	m.mu.Unlock()
	return m.SummarizeFunc(ctx, technical, style)
}

func (m *generatorMock) Rewrite(ctx context.Context, title, body, technical, style string) (string, error) {
	m.mu.Lock()
	m.calls.Rewrite++
	m.mu.Unlock()
	return m.RewriteFunc(ctx, title, body, technical, style)
}

func (m *generatorMock) TechnicalReviewCalls() int { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.TechnicalReview }
func (m *generatorMock) StyleCheckCalls() int      { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.StyleCheck }
func (m *generatorMock) SummarizeCalls() int       { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.Summarize }
func (m *generatorMock) RewriteCalls() int         { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.Rewrite }

type postReaderMock struct {
	GetPostFunc func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
}

func (m *postReaderMock) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return m.GetPostFunc(ctx, id)
}

type sessionRepoMock struct {
	CreateSessionFunc func(ctx context.Context, s *domain.ReviewSession) error
	GetSessionFunc    func(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error)
	GetResultFunc     func(ctx context.Context, sessionID uuid.UUID) (*domain.ReviewResult, error)
	SaveResultFunc    func(ctx context.Context, res *domain.ReviewResult) error
	MarkFailedFunc    func(ctx context.Context, sessionID uuid.UUID) error
	ListByPostFunc    func(ctx context.Context, postID uuid.UUID) ([]domain.ReviewSession, error)

	calls struct {
		CreateSession []*domain.ReviewSession
		SaveResult    []*domain.ReviewResult
		MarkFailed    []uuid.UUID
	}
	mu sync.Mutex
}

func (m *sessionRepoMock) CreateSession(ctx context.Context, s *domain.ReviewSession) error {
	m.mu.Lock()
	m.calls.CreateSession = append(m.calls.CreateSession, s)
	m.mu.Unlock()
	if m.CreateSessionFunc == nil {
		return nil
	}
	return m.CreateSessionFunc(ctx, s)
}

func (m *sessionRepoMock) GetSession(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	return m.GetSessionFunc(ctx, id)
}

func (m *sessionRepoMock) GetResult(ctx context.Context, sessionID uuid.UUID) (*domain.ReviewResult, error) {
	return m.GetResultFunc(ctx, sessionID)
}

func (m *sessionRepoMock) SaveResult(ctx context.Context, res *domain.ReviewResult) error {
	m.mu.Lock()
	m.calls.SaveResult = append(m.calls.SaveResult, res)
	m.mu.Unlock()
	if m.SaveResultFunc == nil {
		return nil
	}
	return m.SaveResultFunc(ctx, res)
}

func (m *sessionRepoMock) MarkFailed(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	m.calls.MarkFailed = append(m.calls.MarkFailed, sessionID)
	m.mu.Unlock()
	if m.MarkFailedFunc == nil {
		return nil
	}
	return m.MarkFailedFunc(ctx, sessionID)
}

func (m *sessionRepoMock) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.ReviewSession, error) {
	return m.ListByPostFunc(ctx, postID)
}

func (m *sessionRepoMock) CreateSessionCalls() []*domain.ReviewSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.CreateSession
}

func (m *sessionRepoMock) SaveResultCalls() []*domain.ReviewResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.SaveResult
}

func (m *sessionRepoMock) MarkFailedCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.MarkFailed
}

type enqueuerMock struct {
	EnqueueUpdateFunc func(ctx context.Context, actor domain.Actor, postID uuid.UUID, in post.UpdatePostInput) error

	calls struct {
		EnqueueUpdate []enqueuedUpdate
	}
	mu sync.Mutex
}

type enqueuedUpdate struct {
	Actor  domain.Actor
	PostID uuid.UUID
	Input  post.UpdatePostInput
}

func (m *enqueuerMock) EnqueueUpdate(ctx context.Context, actor domain.Actor, postID uuid.UUID, in post.UpdatePostInput) error {
	m.mu.Lock()
	m.calls.EnqueueUpdate = append(m.calls.EnqueueUpdate, enqueuedUpdate{Actor: actor, PostID: postID, Input: in})
	m.mu.Unlock()
	if m.EnqueueUpdateFunc == nil {
		return nil
	}
	return m.EnqueueUpdateFunc(ctx, actor, postID, in)
}

func (m *enqueuerMock) EnqueueUpdateCalls() []enqueuedUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.EnqueueUpdate
}
