package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedPost inserts a post for the given author. Returns a filled domain.Post.
func SeedPost(t *testing.T, pool *pgxpool.Pool, authorID uuid.UUID) domain.Post {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	post := domain.Post{
		ID:         uuid.New(),
		Title:      "Post " + suffix,
		Body:       "Body of post " + suffix,
		AuthorID:   authorID,
		AuthorName: "author-" + suffix,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO posts (id, title, body, author_id, author_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		post.ID, post.Title, post.Body, post.AuthorID, post.AuthorName, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPost insert post: %v", err)
	}

	return post
}

// SeedReviewSession inserts a review session in the given status. A completed
// or failed session gets completed_at set.
func SeedReviewSession(t *testing.T, pool *pgxpool.Pool, postID, userID uuid.UUID, status domain.ReviewStatus) domain.ReviewSession {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	session := domain.ReviewSession{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
	}
	if status.IsTerminal() {
		completed := now
		session.CompletedAt = &completed
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO review_sessions (id, post_id, user_id, status, auto_apply, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.PostID, session.UserID, int16(session.Status), session.AutoApply, session.CreatedAt, session.CompletedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReviewSession insert session: %v", err)
	}

	return session
}

// SeedReviewResult inserts a result row for a session. The session status is
// not touched; pair with SeedReviewSession(..., ReviewStatusCompleted).
func SeedReviewResult(t *testing.T, pool *pgxpool.Pool, sessionID uuid.UUID) domain.ReviewResult {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	result := domain.ReviewResult{
		ID:              uuid.New(),
		SessionID:       sessionID,
		IssueSummary:    "Summary " + suffix,
		TechnicalIssues: "Technical findings " + suffix,
		StyleIssues:     "Style findings " + suffix,
		CreatedAt:       now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO review_results (id, session_id, issue_summary, technical_issues, style_issues, suggested_revision, diff_view, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		result.ID, result.SessionID, result.IssueSummary, result.TechnicalIssues,
		result.StyleIssues, result.SuggestedRevision, result.DiffView, result.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReviewResult insert result: %v", err)
	}

	return result
}
