// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

/*
Package post defines the publishing domain of Inkline.

It manages the lifecycle of articles and their comment threads, and is the
primary consumer of the access-control core: writing is restricted to the
author and admin roles, and mutating an existing article additionally
requires ownership (or the admin override).

Core Responsibility:

  - Publishing: Create, update, delete articles with URL-safe slugs.
  - Discussion: Flat comment threads attached to an article.
  - Access: Ownership checks against the authenticated identity.
*/
package post

import (
	"time"

	"github.com/inklinehq/inkline/internal/platform/sec"
)

// # Core Entities

// Post is the central aggregate of the publishing domain.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"` // URL-safe identifier derived from the title
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the given identity is the author of the post.
//
// IDs are UUID strings; comparison is case-insensitive so that a client
// echoing an upper-cased UUID still matches the stored canonical form.
func (p *Post) OwnedBy(identity *sec.Identity) bool {
	return identity != nil && sec.SameID(p.AuthorID, identity.UserID)
}

// Comment is a single entry in a post's discussion thread.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and response payloads.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldBody    = "body"
	FieldPostID  = "post_id"
)
