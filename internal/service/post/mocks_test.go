package post

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

type repoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListFunc    func(ctx context.Context, f domain.PostFilter) ([]domain.Post, error)
	CreateFunc  func(ctx context.Context, p *domain.Post) (bool, error)
	UpdateFunc  func(ctx context.Context, id uuid.UUID, title, body *string) (uuid.UUID, bool, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error)

	calls struct {
		GetByID []uuid.UUID
		List    []domain.PostFilter
		Create  []*domain.Post
		Update  []uuid.UUID
		Delete  []uuid.UUID
	}
	mu sync.Mutex
}

func (m *repoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, id)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, id)
}

func (m *repoMock) List(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	m.mu.Lock()
	m.calls.List = append(m.calls.List, f)
	m.mu.Unlock()
	return m.ListFunc(ctx, f)
}

func (m *repoMock) Create(ctx context.Context, p *domain.Post) (bool, error) {
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, p)
	m.mu.Unlock()
	return m.CreateFunc(ctx, p)
}

func (m *repoMock) Update(ctx context.Context, id uuid.UUID, title, body *string) (uuid.UUID, bool, error) {
	m.mu.Lock()
	m.calls.Update = append(m.calls.Update, id)
	m.mu.Unlock()
	return m.UpdateFunc(ctx, id, title, body)
}

func (m *repoMock) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, id)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, id)
}

func (m *repoMock) GetByIDCalls() []uuid.UUID { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.GetByID }
func (m *repoMock) ListCalls() []domain.PostFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.List
}
func (m *repoMock) CreateCalls() []*domain.Post { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.Create }
func (m *repoMock) UpdateCalls() []uuid.UUID    { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.Update }
func (m *repoMock) DeleteCalls() []uuid.UUID    { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.Delete }

type cacheMock struct {
	GetFunc    func(ctx context.Context, key string) ([]byte, bool, error)
	SetFunc    func(ctx context.Context, key string, value []byte) error
	DeleteFunc func(ctx context.Context, keys ...string) error

	calls struct {
		Get    []string
		Set    []string
		Delete [][]string
	}
	mu sync.Mutex
}

func (m *cacheMock) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	m.calls.Get = append(m.calls.Get, key)
	m.mu.Unlock()
	if m.GetFunc == nil {
		return nil, false, nil
	}
	return m.GetFunc(ctx, key)
}

func (m *cacheMock) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.calls.Set = append(m.calls.Set, key)
	m.mu.Unlock()
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value)
}

func (m *cacheMock) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, keys)
	m.mu.Unlock()
	if m.DeleteFunc == nil {
		return nil
	}
	return m.DeleteFunc(ctx, keys...)
}

func (m *cacheMock) GetCalls() []string      { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.Get }
func (m *cacheMock) SetCalls() []string      { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.Set }
func (m *cacheMock) DeleteCalls() [][]string { m.mu.Lock(); defer m.mu.Unlock(); return m.calls.Delete }

type publisherMock struct {
	PublishFunc func(ctx context.Context, routingKey string, body []byte) error

	calls struct {
		Publish []publishedMessage
	}
	mu sync.Mutex
}

type publishedMessage struct {
	RoutingKey string
	Body       []byte
}

func (m *publisherMock) Publish(ctx context.Context, routingKey string, body []byte) error {
	m.mu.Lock()
	m.calls.Publish = append(m.calls.Publish, publishedMessage{RoutingKey: routingKey, Body: body})
	m.mu.Unlock()
	if m.PublishFunc == nil {
		return nil
	}
	return m.PublishFunc(ctx, routingKey, body)
}

func (m *publisherMock) PublishCalls() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Publish
}
