package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/adapter/redis"
	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

type writeRepo interface {
	Create(ctx context.Context, p *domain.Post) (bool, error)
	Update(ctx context.Context, id uuid.UUID, title, body *string) (authorID uuid.UUID, found bool, err error)
	Delete(ctx context.Context, id uuid.UUID) (authorID uuid.UUID, found bool, err error)
}

type invalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// Worker applies mutation commands consumed from the broker. It is the only
// writer of the post store. Handle returns nil only after the store write AND
// the cache invalidation both succeeded, so a returned error leaves the
// message unacked for redelivery.
type Worker struct {
	log   *slog.Logger
	repo  writeRepo
	cache invalidator
}

// NewWorker creates a mutation worker.
func NewWorker(log *slog.Logger, repo writeRepo, cache invalidator) *Worker {
	return &Worker{
		log:   log.With("service", "post-worker"),
		repo:  repo,
		cache: cache,
	}
}

// Handle decodes and applies one mutation command. Safe to call again with
// the same message: creates are conflict-suppressed by id, updates and
// deletes of missing posts are no-ops.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	cmd, err := decodeCommand(body)
	if err != nil {
		// Malformed messages would fail forever; log and drop.
		w.log.ErrorContext(ctx, "dropping malformed command", slog.String("error", err.Error()))
		return nil
	}

	log := w.log.With(
		slog.String("event", cmd.Kind.Event()),
		slog.String("post_id", cmd.PostID.String()),
	)

	authorID, applied, err := w.apply(ctx, cmd)
	if err != nil {
		log.ErrorContext(ctx, "apply command", slog.String("error", err.Error()))
		return err
	}

	// Invalidation runs even when the apply was a no-op: a redelivery means an
	// earlier delivery may have written the store and died before dropping the
	// keys. When the row is gone the author id comes from the message.
	if authorID == uuid.Nil {
		authorID = cmd.ActorID
	}
	keys := []string{redis.DetailKey(cmd.PostID), redis.AuthorListKey(authorID)}
	if err := w.cache.Delete(ctx, keys...); err != nil {
		// The store write is durable; redelivery re-applies as a no-op and
		// retries the invalidation.
		log.ErrorContext(ctx, "invalidate cache", slog.String("error", err.Error()))
		return err
	}

	if !applied {
		log.InfoContext(ctx, "command applied earlier, keys invalidated")
		return nil
	}

	log.InfoContext(ctx, "command applied")
	return nil
}

func (w *Worker) apply(ctx context.Context, cmd domain.MutationCommand) (authorID uuid.UUID, applied bool, err error) {
	switch cmd.Kind {
	case domain.CommandCreate:
		p := &domain.Post{
			ID:         cmd.PostID,
			Title:      deref(cmd.Title),
			Body:       deref(cmd.Body),
			AuthorID:   cmd.ActorID,
			AuthorName: cmd.ActorName,
		}
		created, err := w.repo.Create(ctx, p)
		if err != nil {
			return uuid.Nil, false, err
		}
		if !created {
			// Redelivered create; the row already exists.
			return cmd.ActorID, false, nil
		}
		return p.AuthorID, true, nil

	case domain.CommandUpdate:
		return w.repo.Update(ctx, cmd.PostID, cmd.Title, cmd.Body)

	case domain.CommandDelete:
		return w.repo.Delete(ctx, cmd.PostID)

	default:
		return uuid.Nil, false, fmt.Errorf("unknown command kind %q", cmd.Kind)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
