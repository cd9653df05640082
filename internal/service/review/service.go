package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
	"github.com/heartmarshall/inkwell-backend/internal/service/post"
)

type postReader interface {
	GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error)
}

type sessionRepo interface {
	CreateSession(ctx context.Context, s *domain.ReviewSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error)
	GetResult(ctx context.Context, sessionID uuid.UUID) (*domain.ReviewResult, error)
	SaveResult(ctx context.Context, res *domain.ReviewResult) error
	MarkFailed(ctx context.Context, sessionID uuid.UUID) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.ReviewSession, error)
}

type updateEnqueuer interface {
	EnqueueUpdate(ctx context.Context, actor domain.Actor, postID uuid.UUID, in post.UpdatePostInput) error
}

// applyActorName identifies revisions issued through the review workflow in
// the mutation stream.
const applyActorName = "agent-review"

// Service manages review sessions: it runs the pipeline, persists the
// lifecycle, and routes accepted revisions back through the mutation producer.
// It never writes the post store directly.
type Service struct {
	log      *slog.Logger
	posts    postReader
	sessions sessionRepo
	pipe     *Pipeline
	producer updateEnqueuer
}

// NewService creates a review session manager.
func NewService(log *slog.Logger, posts postReader, sessions sessionRepo, pipe *Pipeline, producer updateEnqueuer) *Service {
	return &Service{
		log:      log.With("service", "review"),
		posts:    posts,
		sessions: sessions,
		pipe:     pipe,
		producer: producer,
	}
}

// RewriteOutput is the result of a standalone rewrite.
type RewriteOutput struct {
	SuggestedRevision string
	DiffView          string
}

// StartReview runs one review session for a post, synchronously. The session
// row is created pending before any model call, so an interrupted run leaves
// an inspectable record. Every failure after creation flips the session to
// failed; completed and failed are final.
func (s *Service) StartReview(ctx context.Context, postID, userID uuid.UUID, autoApply bool) (*domain.ReviewSession, *domain.ReviewResult, error) {
	session := &domain.ReviewSession{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		Status:    domain.ReviewStatusPending,
		AutoApply: autoApply,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create review session: %w", err)
	}

	log := s.log.With(
		slog.String("session_id", session.ID.String()),
		slog.String("post_id", postID.String()),
	)

	p, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		s.fail(ctx, log, session)
		return nil, nil, fmt.Errorf("load post for review: %w", err)
	}

	outcome, err := s.pipe.Run(ctx, p.Title, p.Body)
	if err != nil {
		s.fail(ctx, log, session)
		return nil, nil, fmt.Errorf("review session %s: %w", session.ID, err)
	}

	if autoApply {
		revision, err := s.pipe.Rewrite(ctx, p.Title, p.Body, outcome.TechnicalIssues, outcome.StyleIssues)
		if err != nil {
			s.fail(ctx, log, session)
			return nil, nil, fmt.Errorf("review session %s: %w", session.ID, err)
		}
		outcome.SuggestedRevision = revision
		outcome.DiffView = diffView(p.Body, revision)
	}

	result := &domain.ReviewResult{
		ID:                uuid.New(),
		SessionID:         session.ID,
		IssueSummary:      outcome.IssueSummary,
		TechnicalIssues:   outcome.TechnicalIssues,
		StyleIssues:       outcome.StyleIssues,
		SuggestedRevision: outcome.SuggestedRevision,
		DiffView:          outcome.DiffView,
	}
	if err := s.sessions.SaveResult(ctx, result); err != nil {
		// A conflict means the session already reached a terminal status; any
		// other error leaves it pending unless it is flipped to failed here.
		if !errors.Is(err, domain.ErrConflict) {
			s.fail(ctx, log, session)
		}
		return nil, nil, fmt.Errorf("save review result: %w", err)
	}

	session.Status = domain.ReviewStatusCompleted
	now := time.Now().UTC()
	session.CompletedAt = &now

	log.InfoContext(ctx, "review session completed",
		slog.Bool("technical_passed", outcome.TechnicalPassed),
		slog.Bool("auto_apply", autoApply),
	)

	if autoApply && strings.TrimSpace(outcome.SuggestedRevision) != "" {
		// The session is already durable and completed; a failed enqueue is
		// recoverable through ApplyRevision, so it only logs.
		if err := s.enqueueRevision(ctx, session, outcome.SuggestedRevision); err != nil {
			log.ErrorContext(ctx, "auto-apply enqueue failed", slog.String("error", err.Error()))
		}
	}

	return session, result, nil
}

// GetSession returns a session and, when present, its result. Pending and
// failed sessions have no result.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, *domain.ReviewResult, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.sessions.GetResult(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return session, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	return session, result, nil
}

// ListSessions returns a post's review history, newest-first.
func (s *Service) ListSessions(ctx context.Context, postID uuid.UUID) ([]domain.ReviewSession, error) {
	return s.sessions.ListByPost(ctx, postID)
}

// ApplyRevision publishes a completed session's suggested revision as a
// regular update command, attributed to the session's user. An override body
// replaces the stored revision. The post store is never written here; the
// update flows through the broker like any other mutation.
func (s *Service) ApplyRevision(ctx context.Context, sessionID uuid.UUID, override *string) error {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.Status != domain.ReviewStatusCompleted {
		return fmt.Errorf("session %s is %s, not COMPLETED: %w",
			sessionID, session.Status, domain.ErrConflict)
	}

	revision, err := s.resolveRevision(ctx, session, override)
	if err != nil {
		return err
	}

	if err := s.enqueueRevision(ctx, session, revision); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "revision enqueued",
		slog.String("session_id", sessionID.String()),
		slog.String("post_id", session.PostID.String()),
		slog.Bool("override", override != nil),
	)

	return nil
}

// RewritePost runs a standalone rewrite with no session and no persistence.
func (s *Service) RewritePost(ctx context.Context, postID uuid.UUID) (*RewriteOutput, error) {
	p, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	revision, err := s.pipe.Rewrite(ctx, p.Title, p.Body, "", "")
	if err != nil {
		return nil, err
	}

	return &RewriteOutput{
		SuggestedRevision: revision,
		DiffView:          diffView(p.Body, revision),
	}, nil
}

// StyleCheckPost runs a standalone style check with no session.
func (s *Service) StyleCheckPost(ctx context.Context, postID uuid.UUID) (string, error) {
	p, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return "", err
	}
	return s.pipe.StyleCheck(ctx, p.Title, p.Body)
}

func (s *Service) resolveRevision(ctx context.Context, session *domain.ReviewSession, override *string) (string, error) {
	if override != nil {
		if strings.TrimSpace(*override) == "" {
			return "", domain.NewValidationError("body", "override must not be blank")
		}
		return *override, nil
	}

	result, err := s.sessions.GetResult(ctx, session.ID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result.SuggestedRevision) == "" {
		return "", domain.NewValidationError("body", "session has no suggested revision; provide an override")
	}

	return result.SuggestedRevision, nil
}

func (s *Service) enqueueRevision(ctx context.Context, session *domain.ReviewSession, revision string) error {
	actor := domain.Actor{ID: session.UserID, Name: applyActorName}
	return s.producer.EnqueueUpdate(ctx, actor, session.PostID, post.UpdatePostInput{Body: &revision})
}

// fail flips the session to failed. The primary error is already on its way
// to the caller; a secondary failure here only logs.
func (s *Service) fail(ctx context.Context, log *slog.Logger, session *domain.ReviewSession) {
	if err := s.sessions.MarkFailed(ctx, session.ID); err != nil {
		log.ErrorContext(ctx, "mark session failed", slog.String("error", err.Error()))
		return
	}
	session.Status = domain.ReviewStatusFailed
}
