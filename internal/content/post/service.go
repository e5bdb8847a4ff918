// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package post

import (
	"context"
	"fmt"

	"github.com/inklinehq/inkline/internal/platform/apperr"
	"github.com/inklinehq/inkline/internal/platform/sec"
	"github.com/inklinehq/inkline/pkg/pagination"
	"github.com/inklinehq/inkline/pkg/slug"
	"github.com/inklinehq/inkline/pkg/uuidv7"
)

// # Service

// Service implements publishing use cases on top of the repositories.
//
// Role checks (who may reach an operation at all) live in the HTTP layer's
// middleware; this service enforces the finer-grained ownership rule, which
// needs the loaded entity.
type Service struct {
	posts    PostRepository
	comments CommentRepository
}

// NewService constructs a new post [Service] with its repositories.
func NewService(posts PostRepository, comments CommentRepository) *Service {
	return &Service{posts: posts, comments: comments}
}

// # Publishing Flow

// CreateInput holds the data required to publish a new article.
type CreateInput struct {
	Title   string
	Content string
}

// UpdateInput holds the replacement data for an existing article.
type UpdateInput struct {
	Title   string
	Content string
}

/*
Create publishes a new article owned by the calling identity.

Description: The author is taken from the verified request identity, never
from the payload, so a client cannot publish on someone else's behalf.

Parameters:
  - context: context.Context
  - identity: *sec.Identity
  - input: CreateInput

Returns:
  - *Post: Created entity with its generated slug
  - err: Conflict (slug collision) or storage errors
*/
func (service *Service) Create(context context.Context, identity *sec.Identity, input CreateInput) (*Post, error) {

	entity := &Post{
		ID:       uuidv7.New(),
		Title:    input.Title,
		Slug:     slug.From(input.Title),
		Content:  input.Content,
		AuthorID: identity.UserID,
	}

	if err := service.posts.Create(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Get returns a single article by ID. Public, no identity required.
func (service *Service) Get(context context.Context, postID string) (*Post, error) {
	return service.posts.FindByID(context, postID)
}

// List returns one page of articles, newest first.
func (service *Service) List(context context.Context, params pagination.Params) ([]*Post, pagination.Meta, error) {
	posts, total, err := service.posts.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("post_service_list_failed: %w", err)
	}

	return posts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Update replaces the title and content of an existing article.

Description: Only the post's author or an admin may update it. The check runs
against the loaded entity, so a non-owner gets Forbidden even though their
role cleared the route's middleware.

Parameters:
  - context: context.Context
  - identity: *sec.Identity
  - postID: string
  - input: UpdateInput

Returns:
  - *Post: Entity after the change
  - err: NotFound, Forbidden, or storage errors
*/
func (service *Service) Update(context context.Context, identity *sec.Identity, postID string, input UpdateInput) (*Post, error) {

	entity, err := service.posts.FindByID(context, postID)
	if err != nil {
		return nil, err
	}

	if err := service.authorizeOwner(entity, identity); err != nil {
		return nil, err
	}

	entity.Title = input.Title
	entity.Slug = slug.From(input.Title)
	entity.Content = input.Content

	if err := service.posts.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

/*
Delete removes an article and its comment thread.

Description: Same ownership rule as Update: the author or an admin.

Parameters:
  - context: context.Context
  - identity: *sec.Identity
  - postID: string

Returns:
  - err: NotFound, Forbidden, or storage errors
*/
func (service *Service) Delete(context context.Context, identity *sec.Identity, postID string) error {

	entity, err := service.posts.FindByID(context, postID)
	if err != nil {
		return err
	}

	if err := service.authorizeOwner(entity, identity); err != nil {
		return err
	}

	return service.posts.Delete(context, postID)
}

// authorizeOwner enforces the owner-or-admin rule on a loaded post.
//
// The existence check (404) always runs before this (403), so probing an ID
// you don't own reveals only what the public GET endpoint reveals anyway.
func (service *Service) authorizeOwner(entity *Post, identity *sec.Identity) error {
	if identity == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if identity.Role == sec.RoleAdmin || entity.OwnedBy(identity) {
		return nil
	}
	return apperr.Forbidden("You do not own this post")
}

// # Discussion Flow

// CommentInput holds the data for a new comment.
type CommentInput struct {
	AuthorName string
	Body       string
}

/*
AddComment appends a comment to a post's thread.

Description: Any authenticated identity may comment, regardless of role.

Parameters:
  - context: context.Context
  - identity: *sec.Identity
  - postID: string
  - input: CommentInput

Returns:
  - *Comment: Created entry
  - err: NotFound (no such post) or storage errors
*/
func (service *Service) AddComment(context context.Context, identity *sec.Identity, postID string, input CommentInput) (*Comment, error) {

	// Surface a clean 404 before touching the comment table
	if _, err := service.posts.FindByID(context, postID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:         uuidv7.New(),
		PostID:     postID,
		AuthorID:   identity.UserID,
		AuthorName: input.AuthorName,
		Body:       input.Body,
	}

	if err := service.comments.Create(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments returns the full thread for a post, oldest first.
func (service *Service) ListComments(context context.Context, postID string) ([]*Comment, error) {

	// A thread only exists for a post that exists
	if _, err := service.posts.FindByID(context, postID); err != nil {
		return nil, err
	}

	comments, err := service.comments.ListByPost(context, postID)
	if err != nil {
		return nil, fmt.Errorf("post_service_list_comments_failed: %w", err)
	}

	return comments, nil
}
