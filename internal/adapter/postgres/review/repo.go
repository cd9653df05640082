// Package review implements the review session and result repositories using
// PostgreSQL. All queries are raw SQL; the meta column is JSONB with custom
// marshal/unmarshal logic.
package review

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/inkwell-backend/internal/adapter/postgres"
	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

// Repo provides review session and result persistence backed by PostgreSQL.
// The result write and the session status flip happen in one transaction:
// a result without a completed session (or vice versa) is never observable.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new review repository.
func New(pool *pgxpool.Pool, txm *postgres.TxManager) *Repo {
	return &Repo{pool: pool, txm: txm}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const sessionColumns = `id, post_id, user_id, status, auto_apply, meta, created_at, completed_at`

const createSessionSQL = `
INSERT INTO review_sessions (id, post_id, user_id, status, auto_apply, meta, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const getSessionSQL = `
SELECT ` + sessionColumns + `
FROM review_sessions
WHERE id = $1`

const resultColumns = `id, session_id, issue_summary, technical_issues, style_issues, suggested_revision, diff_view, created_at`

const insertResultSQL = `
INSERT INTO review_results (id, session_id, issue_summary, technical_issues, style_issues, suggested_revision, diff_view, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
RETURNING created_at`

const getResultSQL = `
SELECT ` + resultColumns + `
FROM review_results
WHERE session_id = $1`

// Status transitions are guarded by "AND status = 0": terminal states are
// final, so a second completion or failure affects zero rows.
const completeSessionSQL = `
UPDATE review_sessions
SET status = $2, completed_at = now()
WHERE id = $1 AND status = 0`

// CreateSession inserts a new pending session.
func (r *Repo) CreateSession(ctx context.Context, s *domain.ReviewSession) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	meta, err := marshalMeta(s.Meta)
	if err != nil {
		return fmt.Errorf("session %s: marshal meta: %w", s.ID, err)
	}

	_, err = q.Exec(ctx, createSessionSQL, s.ID, s.PostID, s.UserID, int16(s.Status), s.AutoApply, meta, s.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "review_session", s.ID)
	}

	return nil
}

// GetSession returns a session by primary key.
func (r *Repo) GetSession(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		s      domain.ReviewSession
		status int16
		meta   []byte
	)
	err := q.QueryRow(ctx, getSessionSQL, id).Scan(
		&s.ID, &s.PostID, &s.UserID, &status, &s.AutoApply, &meta, &s.CreatedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "review_session", id)
	}

	s.Status = domain.ReviewStatus(status)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &s.Meta); err != nil {
			return nil, fmt.Errorf("session %s: unmarshal meta: %w", id, err)
		}
	}

	return &s, nil
}

// GetResult returns the result belonging to a session, or domain.ErrNotFound
// when the session has no result (pending or failed sessions).
func (r *Repo) GetResult(ctx context.Context, sessionID uuid.UUID) (*domain.ReviewResult, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var res domain.ReviewResult
	err := q.QueryRow(ctx, getResultSQL, sessionID).Scan(
		&res.ID, &res.SessionID, &res.IssueSummary, &res.TechnicalIssues,
		&res.StyleIssues, &res.SuggestedRevision, &res.DiffView, &res.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "review_result", sessionID)
	}

	return &res, nil
}

// SaveResult atomically inserts the result row and flips the session from
// pending to completed. Returns domain.ErrConflict when the session is no
// longer pending (terminal states are final).
func (r *Repo) SaveResult(ctx context.Context, res *domain.ReviewResult) error {
	return r.txm.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.pool)

		tag, err := q.Exec(ctx, completeSessionSQL, res.SessionID, int16(domain.ReviewStatusCompleted))
		if err != nil {
			return postgres.MapError(err, "review_session", res.SessionID)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("review_session %s: not pending: %w", res.SessionID, domain.ErrConflict)
		}

		err = q.QueryRow(ctx, insertResultSQL,
			res.ID, res.SessionID, res.IssueSummary, res.TechnicalIssues,
			res.StyleIssues, res.SuggestedRevision, res.DiffView,
		).Scan(&res.CreatedAt)
		if err != nil {
			return postgres.MapError(err, "review_result", res.SessionID)
		}

		return nil
	})
}

// MarkFailed flips the session from pending to failed. Returns
// domain.ErrConflict when the session is no longer pending.
func (r *Repo) MarkFailed(ctx context.Context, sessionID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, completeSessionSQL, sessionID, int16(domain.ReviewStatusFailed))
	if err != nil {
		return postgres.MapError(err, "review_session", sessionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review_session %s: not pending: %w", sessionID, domain.ErrConflict)
	}

	return nil
}

// ListByPost returns the review history of a post, newest-first.
func (r *Repo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.ReviewSession, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, `
SELECT `+sessionColumns+`
FROM review_sessions
WHERE post_id = $1
ORDER BY created_at DESC`, postID)
	if err != nil {
		return nil, postgres.MapError(err, "review_session", postID)
	}
	defer rows.Close()

	var sessions []domain.ReviewSession
	for rows.Next() {
		var (
			s      domain.ReviewSession
			status int16
			meta   []byte
		)
		if err := rows.Scan(&s.ID, &s.PostID, &s.UserID, &status, &s.AutoApply, &meta, &s.CreatedAt, &s.CompletedAt); err != nil {
			return nil, postgres.MapError(err, "review_session", postID)
		}
		s.Status = domain.ReviewStatus(status)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &s.Meta); err != nil {
				return nil, fmt.Errorf("session %s: unmarshal meta: %w", s.ID, err)
			}
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "review_session", postID)
	}

	return sessions, nil
}

func marshalMeta(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	return json.Marshal(meta)
}
