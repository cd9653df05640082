// Package post implements the asynchronous post mutation pipeline: the
// producer side (validate, serialize, publish to the broker) and the
// cache-aside read path. Mutations are applied by the Worker in this package;
// nothing else writes the post store.
package post

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/adapter/redis"
	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

type readRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, f domain.PostFilter) ([]domain.Post, error)
}

type cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Service is the mutation producer and read path for posts.
type Service struct {
	log   *slog.Logger
	repo  readRepo
	cache cache
	pub   publisher
}

// NewService creates a post service.
func NewService(log *slog.Logger, repo readRepo, cache cache, pub publisher) *Service {
	return &Service{
		log:   log.With("service", "post"),
		repo:  repo,
		cache: cache,
		pub:   pub,
	}
}

// ---------------------------------------------------------------------------
// Mutation producer
// ---------------------------------------------------------------------------

// EnqueueCreate validates and publishes a create command. The returned id is
// allocated here, before publishing: it is the idempotency key that makes
// broker redelivery safe, and it lets the caller poll for the post before the
// worker has applied the command. The post is NOT yet created when this
// returns.
func (s *Service) EnqueueCreate(ctx context.Context, actor domain.Actor, in CreatePostInput) (uuid.UUID, error) {
	if err := in.Validate(); err != nil {
		return uuid.Nil, err
	}

	cmd := domain.MutationCommand{
		Kind:      domain.CommandCreate,
		PostID:    uuid.New(),
		Title:     &in.Title,
		Body:      &in.Body,
		ActorID:   actor.ID,
		ActorName: actor.Name,
	}

	if err := s.publish(ctx, cmd); err != nil {
		return uuid.Nil, err
	}

	return cmd.PostID, nil
}

// EnqueueUpdate validates and publishes an update command.
func (s *Service) EnqueueUpdate(ctx context.Context, actor domain.Actor, postID uuid.UUID, in UpdatePostInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	return s.publish(ctx, domain.MutationCommand{
		Kind:      domain.CommandUpdate,
		PostID:    postID,
		Title:     in.Title,
		Body:      in.Body,
		ActorID:   actor.ID,
		ActorName: actor.Name,
	})
}

// EnqueueDelete publishes a delete command.
func (s *Service) EnqueueDelete(ctx context.Context, actor domain.Actor, postID uuid.UUID) error {
	return s.publish(ctx, domain.MutationCommand{
		Kind:      domain.CommandDelete,
		PostID:    postID,
		ActorID:   actor.ID,
		ActorName: actor.Name,
	})
}

func (s *Service) publish(ctx context.Context, cmd domain.MutationCommand) error {
	body, err := encodeCommand(cmd)
	if err != nil {
		return err
	}

	if err := s.pub.Publish(ctx, cmd.Kind.Event(), body); err != nil {
		return fmt.Errorf("enqueue %s for post %s: %w", cmd.Kind, cmd.PostID, err)
	}

	s.log.InfoContext(ctx, "command enqueued",
		slog.String("event", cmd.Kind.Event()),
		slog.String("post_id", cmd.PostID.String()),
		slog.String("actor_id", cmd.ActorID.String()),
	)

	return nil
}

// ---------------------------------------------------------------------------
// Read path (cache-aside)
// ---------------------------------------------------------------------------

// GetPost returns one post, preferring the cache. On a miss the store is read
// and the cache repopulated with the configured TTL. A read racing a worker's
// invalidation can repopulate the cache with pre-mutation state; that narrow
// staleness window is accepted instead of locking, because mutations for one
// post flow through a single ordered queue.
func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	key := redis.DetailKey(id)

	if cached, hit, err := s.cache.Get(ctx, key); err != nil {
		return nil, err
	} else if hit {
		var view postView
		if err := json.Unmarshal(cached, &view); err == nil {
			p := view.toDomain()
			return &p, nil
		}
		// Undecodable entry: fall through to the store and overwrite it.
		s.log.WarnContext(ctx, "dropping undecodable cache entry", slog.String("key", key))
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.repopulate(ctx, key, toView(*p))

	return p, nil
}

// ListByAuthor returns an author's posts, preferring the cache.
func (s *Service) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Post, error) {
	key := redis.AuthorListKey(authorID)

	if cached, hit, err := s.cache.Get(ctx, key); err != nil {
		return nil, err
	} else if hit {
		var views []postView
		if err := json.Unmarshal(cached, &views); err == nil {
			posts := make([]domain.Post, len(views))
			for i, v := range views {
				posts[i] = v.toDomain()
			}
			return posts, nil
		}
		s.log.WarnContext(ctx, "dropping undecodable cache entry", slog.String("key", key))
	}

	posts, err := s.repo.List(ctx, domain.PostFilter{AuthorID: &authorID})
	if err != nil {
		return nil, err
	}

	views := make([]postView, len(posts))
	for i, p := range posts {
		views[i] = toView(p)
	}
	s.repopulate(ctx, key, views)

	return posts, nil
}

// ListAll returns the site-wide post list, newest-first. Not cached: the
// global list changes on every mutation and would thrash.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, domain.PostFilter{Limit: limit, Offset: offset})
}

// repopulate writes a read model back to the cache. Failures are logged, not
// returned: the read already succeeded against the store.
func (s *Service) repopulate(ctx context.Context, key string, view any) {
	encoded, err := json.Marshal(view)
	if err != nil {
		s.log.ErrorContext(ctx, "marshal cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := s.cache.Set(ctx, key, encoded); err != nil {
		s.log.WarnContext(ctx, "cache repopulate failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
