// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

/*
Package rest is the typed HTTP client for the Inkline API.

It owns the transport concerns of the client side: attaching the Bearer
token, decoding the server's response envelope, and classifying failures.

# Error Classification

The one distinction everything above this package depends on:

  - The server answered 401: the session is rejected, [ErrUnauthorized].
  - The server could not be reached: a wrapped transport error.

A caller deciding whether to keep or purge a cached session must never
confuse the two, so they are never folded into one error value.
*/
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized means the server explicitly rejected the credentials.
//
// This is a verdict, not an outage: the token (or password) is no good.
var ErrUnauthorized = errors.New("rest: unauthorized")

// APIError is a non-401 error decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("rest: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// TokenSource supplies the current Bearer token, empty when signed out.
//
// The session manager implements this, so the client always sends whatever
// token the session file currently holds.
type TokenSource interface {
	Token() string
}

// # Transport Types

// UserProfile is the client-side view of an account.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the payload of a successful register or login call.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// # Client

// Client is a thin typed wrapper over the Inkline REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// staticToken adapts a fixed string (possibly empty) into a [TokenSource].
type staticToken string

func (s staticToken) Token() string { return string(s) }

// New constructs a [Client] for the API at baseURL.
//
// tokens may be nil for a client that only calls public endpoints.
func New(baseURL string, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = staticToken("")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// # Auth Endpoints

// Register creates a new account and returns its first session.
func (client *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}

	var session Session
	if err := client.call(ctx, http.MethodPost, "/api/v1/auth/register", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Login exchanges credentials for a session.
func (client *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}

	var session Session
	if err := client.call(ctx, http.MethodPost, "/api/v1/auth/login", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Verify asks the server whether the current token still stands.
//
// On success it returns the live profile, which may differ from any cached
// snapshot (the role could have changed since the token was issued).
func (client *Client) Verify(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := client.call(ctx, http.MethodGet, "/api/v1/auth/verify", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Profile fetches the caller's account record.
func (client *Client) Profile(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := client.call(ctx, http.MethodGet, "/api/v1/auth/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// # Plumbing

// successEnvelope mirrors the server's success wrapper.
type successEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// errorEnvelope mirrors the server's error wrapper.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// call performs one request/response cycle against the API.
//
// A transport failure (DNS, refused connection, context deadline) comes back
// wrapped, distinct from every server verdict.
func (client *Client) call(ctx context.Context, method, path string, payload, result interface{}) error {

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("rest: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("rest: build request: %w", err)
	}
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := client.tokens.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("rest: request failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("rest: read response: %w", err)
	}

	if response.StatusCode >= 400 {
		var envelope errorEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error == "" {
			return &APIError{StatusCode: response.StatusCode, Code: "UNKNOWN", Message: http.StatusText(response.StatusCode)}
		}
		return &APIError{StatusCode: response.StatusCode, Code: envelope.Code, Message: envelope.Error}
	}

	if result == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	var envelope successEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("rest: decode envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("rest: decode payload: %w", err)
	}

	return nil
}
