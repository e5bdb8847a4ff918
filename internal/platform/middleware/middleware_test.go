// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inklinehq/inkline/internal/platform/middleware"
)

// fakeAppConfig drives the CORS middleware's environment decisions.
type fakeAppConfig struct {
	development  bool
	extraOrigins []string
}

func (f fakeAppConfig) IsDevelopment() bool        { return f.development }
func (f fakeAppConfig) CORSExtraOrigins() []string { return f.extraOrigins }

func TestCORS(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         fakeAppConfig
		origin      string
		wantAllowed bool
	}{
		{
			name:        "development_admits_any_origin",
			cfg:         fakeAppConfig{development: true},
			origin:      "http://localhost:5173",
			wantAllowed: true,
		},
		{
			name:        "production_admits_platform_domain",
			cfg:         fakeAppConfig{},
			origin:      "https://www.inkline.app",
			wantAllowed: true,
		},
		{
			name:        "production_rejects_unknown_origin",
			cfg:         fakeAppConfig{},
			origin:      "https://evil.example.com",
			wantAllowed: false,
		},
		{
			name:        "production_admits_configured_extra_origin",
			cfg:         fakeAppConfig{extraOrigins: []string{"https://staging.example.com"}},
			origin:      "https://staging.example.com",
			wantAllowed: true,
		},
		{
			name:        "extra_origin_is_exact_match_only",
			cfg:         fakeAppConfig{extraOrigins: []string{"https://staging.example.com"}},
			origin:      "https://staging.example.com.evil.com",
			wantAllowed: false,
		},
	}

	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			handler := middleware.CORS(testCase.cfg)(next)

			request := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
			request.Header.Set("Origin", testCase.origin)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			allowHeader := recorder.Header().Get("Access-Control-Allow-Origin")
			if testCase.wantAllowed {
				assert.Equal(t, testCase.origin, allowHeader)
			} else {
				assert.Empty(t, allowHeader)
			}
		})
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	nextCalled := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		nextCalled = true
	})

	handler := middleware.CORS(fakeAppConfig{development: true})(next)

	request := httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	request.Header.Set("Origin", "http://localhost:5173")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.False(t, nextCalled)
}
