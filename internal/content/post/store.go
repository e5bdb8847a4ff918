// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package post

import (
	"context"

	"github.com/inklinehq/inkline/pkg/pagination"
)

// # Data Access Contracts

// PostRepository defines the data access contract for articles.
type PostRepository interface {

	// Create persists a new post. A duplicate slug surfaces as apperr.Conflict.
	Create(ctx context.Context, post *Post) error

	// FindByID returns the post with the given ID, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*Post, error)

	// List returns a page of posts, newest first, with the total count.
	List(ctx context.Context, params pagination.Params) ([]*Post, int, error)

	// Update replaces the mutable columns of an existing post.
	Update(ctx context.Context, post *Post) error

	// Delete removes the post and its comment thread.
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the data access contract for comment threads.
type CommentRepository interface {

	// Create appends a comment to a post's thread.
	Create(ctx context.Context, comment *Comment) error

	// ListByPost returns the full thread for a post, oldest first.
	ListByPost(ctx context.Context, postID string) ([]*Comment, error)
}
