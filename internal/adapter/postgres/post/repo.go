// Package post implements the Post repository using PostgreSQL.
// Write queries are raw SQL constants; the list query is built with squirrel
// because its filter set is dynamic.
package post

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/inkwell-backend/internal/adapter/postgres"
	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new post repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const postColumns = `id, title, body, author_id, author_name, created_at, updated_at`

// Creation conflicts on the primary key are suppressed: the producer allocates
// the post id, so a redelivered create command hits the same id and must not
// produce a second row.
const createSQL = `
INSERT INTO posts (id, title, body, author_id, author_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO NOTHING`

const getByIDSQL = `
SELECT ` + postColumns + `
FROM posts
WHERE id = $1`

const updateSQL = `
UPDATE posts
SET title = COALESCE($2, title), body = COALESCE($3, body), updated_at = now()
WHERE id = $1
RETURNING author_id`

const deleteSQL = `
DELETE FROM posts
WHERE id = $1
RETURNING author_id`

// Create inserts a new post. Returns false without error when a row with the
// same id already exists (idempotent re-apply).
func (r *Repo) Create(ctx context.Context, p *domain.Post) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, createSQL, p.ID, p.Title, p.Body, p.AuthorID, p.AuthorName)
	if err != nil {
		return false, postgres.MapError(err, "post", p.ID)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByID returns a post by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.Post
	err := q.QueryRow(ctx, getByIDSQL, id).Scan(
		&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.AuthorName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	return &p, nil
}

// Update overwrites only the provided fields and bumps updated_at.
// Returns the post's author id and found=false (no error) when the post does
// not exist — updating a missing post is a no-op by design.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, title, body *string) (authorID uuid.UUID, found bool, err error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, updateSQL, id, title, body)
	if err != nil {
		return uuid.Nil, false, postgres.MapError(err, "post", id)
	}
	defer rows.Close()

	if !rows.Next() {
		return uuid.Nil, false, rows.Err()
	}
	if err := rows.Scan(&authorID); err != nil {
		return uuid.Nil, false, postgres.MapError(err, "post", id)
	}

	return authorID, true, nil
}

// Delete removes a post. Returns found=false (no error) when the post does
// not exist — deleting a missing post is a no-op by design.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (authorID uuid.UUID, found bool, err error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, deleteSQL, id)
	if err != nil {
		return uuid.Nil, false, postgres.MapError(err, "post", id)
	}
	defer rows.Close()

	if !rows.Next() {
		return uuid.Nil, false, rows.Err()
	}
	if err := rows.Scan(&authorID); err != nil {
		return uuid.Nil, false, postgres.MapError(err, "post", id)
	}

	return authorID, true, nil
}

// List returns posts newest-first, optionally filtered by author.
func (r *Repo) List(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	builder := squirrel.Select("id", "title", "body", "author_id", "author_name", "created_at", "updated_at").
		From("posts").
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if f.AuthorID != nil {
		builder = builder.Where(squirrel.Eq{"author_id": *f.AuthorID})
	}
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		builder = builder.Offset(uint64(f.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "post", uuid.Nil)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.AuthorName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, postgres.MapError(err, "post", uuid.Nil)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "post", uuid.Nil)
	}

	return posts, nil
}
