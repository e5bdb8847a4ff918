// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inklinehq/inkline/internal/platform/middleware"
	requestutil "github.com/inklinehq/inkline/internal/platform/request"
	"github.com/inklinehq/inkline/internal/platform/respond"
	"github.com/inklinehq/inkline/internal/platform/sec"
	"github.com/inklinehq/inkline/internal/platform/validate"
	"github.com/inklinehq/inkline/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the publishing HTTP endpoints.
type Handler struct {
	postService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{postService: service}
}

// Routes returns a [chi.Router] configured with publishing routes.
//
// # Endpoints
//   - GET    /              : Lists posts (public, paginated).
//   - GET    /{id}          : Returns one post (public).
//   - GET    /{id}/comments : Returns a post's thread (public).
//   - POST   /              : (admin, author) Publishes a post.
//   - PUT    /{id}          : (admin, author) Updates a post, owner or admin only.
//   - DELETE /{id}          : (admin, author) Deletes a post, owner or admin only.
//   - POST   /{id}/comments : (any authenticated) Adds a comment.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/comments", handler.listComments)

	// Writing requires the author or admin role
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin, sec.RoleAuthor))
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	// Commenting requires any authenticated identity
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{id}/comments", handler.addComment)
	})

	return router
}

// # Request Payloads

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type commentRequest struct {
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

// validatePostID checks the {id} URL parameter shared by the item routes.
func validatePostID(postID string) error {
	validator := &validate.Validator{}
	validator.Required("id", postID).UUID("id", postID)
	return validator.Err()
}

/*
Create publishes a new article.

POST /api/v1/posts

Response:
  - 201: Post: Created entity with generated slug
  - 403: ErrForbidden: Caller is a reader
  - 409: ErrConflict: Slug collision
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		Required(FieldContent, input.Content)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.postService.Create(request.Context(), identity, CreateInput{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
List returns one page of articles, newest first.

GET /api/v1/posts?page=&limit=

Response:
  - 200: []Post with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	posts, meta, err := handler.postService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}

/*
Get returns a single article.

GET /api/v1/posts/{id}

Response:
  - 200: Post
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.Param(request, "id")
	if err := validatePostID(postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.postService.Get(request.Context(), postID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
Update replaces an article's title and content.

PUT /api/v1/posts/{id}

Description: The route's middleware admits admins and authors; the service
then rejects authors who do not own this particular post.

Response:
  - 200: Post: Entity after the change
  - 403: ErrForbidden: Caller is not the owner and not an admin
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.Param(request, "id")
	if err := validatePostID(postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		Required(FieldContent, input.Content)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.postService.Update(request.Context(), identity, postID, UpdateInput{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Delete removes an article and its thread.

DELETE /api/v1/posts/{id}

Response:
  - 204: No content
  - 403: ErrForbidden: Caller is not the owner and not an admin
  - 404: ErrNotFound
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.Param(request, "id")
	if err := validatePostID(postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.postService.Delete(request.Context(), identity, postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Discussion

/*
AddComment appends a comment to a post's thread.

POST /api/v1/posts/{id}/comments

Response:
  - 201: Comment
  - 401: ErrUnauthorized: Not signed in
  - 404: ErrNotFound: No such post
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID := requestutil.Param(request, "id")
	if err := validatePostID(postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, 2000).
		MaxLen("author_name", input.AuthorName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.postService.AddComment(request.Context(), identity, postID, CommentInput{
		AuthorName: input.AuthorName,
		Body:       input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
ListComments returns a post's full thread.

GET /api/v1/posts/{id}/comments

Response:
  - 200: []Comment, oldest first
  - 404: ErrNotFound: No such post
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.Param(request, "id")
	if err := validatePostID(postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.postService.ListComments(request.Context(), postID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comments)
}
