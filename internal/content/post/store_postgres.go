// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package post

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inklinehq/inkline/internal/platform/apperr"
	"github.com/inklinehq/inkline/internal/platform/dberr"
	"github.com/inklinehq/inkline/pkg/pagination"
)

// # Post Repository

// PostgresPostRepository implements the PostRepository interface using pgx.
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new PostgreSQL implementation of the PostRepository.
func NewPostRepository(pool *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

const postColumns = `id, title, slug, content, authorid, createdat, updatedat`

func scanPost(row interface{ Scan(...any) error }) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Create persists a new post into the content.post table.
func (repository *PostgresPostRepository) Create(ctx context.Context, post *Post) error {
	const query = `
		INSERT INTO content.post (id, title, slug, content, authorid, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)

	return dberr.Wrap(err, "Post")
}

// FindByID retrieves a post by its unique ID.
func (repository *PostgresPostRepository) FindByID(ctx context.Context, id string) (*Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM content.post
		WHERE id = $1`

	post, err := scanPost(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Post")
	}

	return post, nil
}

// List returns one page of posts, newest first, plus the total row count.
//
// Two queries instead of a window function keeps the page query on the
// (createdat) index.
func (repository *PostgresPostRepository) List(ctx context.Context, params pagination.Params) ([]*Post, int, error) {
	const countQuery = `SELECT COUNT(*) FROM content.post`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Post")
	}

	const pageQuery = `
		SELECT ` + postColumns + `
		FROM content.post
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, pageQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Post")
	}
	defer rows.Close()

	posts := make([]*Post, 0, params.Limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Post")
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Post")
	}

	return posts, total, nil
}

// Update replaces the mutable columns of an existing post.
func (repository *PostgresPostRepository) Update(ctx context.Context, post *Post) error {
	const query = `
		UPDATE content.post
		SET title = $2, slug = $3, content = $4, updatedat = NOW()
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
	)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}

	return nil
}

// Delete removes the post. The comment thread goes with it via ON DELETE CASCADE.
func (repository *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM content.post WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post")
	}

	return nil
}

// # Comment Repository

// PostgresCommentRepository implements the CommentRepository interface using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of the CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create appends a comment to a post's thread.
//
// The foreign key on postid rejects comments on a post that vanished between
// the handler's existence check and the insert.
func (repository *PostgresCommentRepository) Create(ctx context.Context, comment *Comment) error {
	const query = `
		INSERT INTO content.comment (id, postid, authorid, authorname, body, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.AuthorName,
		comment.Body,
		comment.CreatedAt,
	)

	return dberr.Wrap(err, "Comment")
}

// ListByPost returns the full thread for a post, oldest first (UUIDv7 order).
func (repository *PostgresCommentRepository) ListByPost(ctx context.Context, postID string) ([]*Comment, error) {
	const query = `
		SELECT id, postid, authorid, authorname, body, createdat
		FROM content.comment
		WHERE postid = $1
		ORDER BY id`

	rows, err := repository.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.AuthorID,
			&comment.AuthorName,
			&comment.Body,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Comment")
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Comment")
	}

	return comments, nil
}
