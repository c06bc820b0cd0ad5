// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestHashToken(t *testing.T) {
	hash, err := HashToken("s3cret")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
}

func TestAdminToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}

	tests := []struct {
		name       string
		hash       string
		authHeader string
		wantStatus int
		wantCalled bool
	}{
		{"unconfigured", "", "Bearer s3cret", http.StatusServiceUnavailable, false},
		{"missing header", string(hash), "", http.StatusUnauthorized, false},
		{"wrong scheme", string(hash), "Basic s3cret", http.StatusUnauthorized, false},
		{"empty token", string(hash), "Bearer   ", http.StatusUnauthorized, false},
		{"wrong token", string(hash), "Bearer nope", http.StatusUnauthorized, false},
		{"valid token", string(hash), "Bearer s3cret", http.StatusOK, true},
		{"scheme is case-insensitive", string(hash), "bearer s3cret", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			handler := AdminToken(tt.hash)(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if *called != tt.wantCalled {
				t.Errorf("next called: got %v, want %v", *called, tt.wantCalled)
			}
			if rr.Code == http.StatusUnauthorized && !strings.HasPrefix(rr.Header().Get("WWW-Authenticate"), "Bearer") {
				t.Errorf("WWW-Authenticate: got %q", rr.Header().Get("WWW-Authenticate"))
			}
			if rr.Code != http.StatusOK && !strings.Contains(rr.Body.String(), `"error"`) {
				t.Errorf("body should be a JSON error, got %q", rr.Body.String())
			}
		})
	}
}
