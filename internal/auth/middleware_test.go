package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestMiddleware(t *testing.T) (*Sessions, http.Handler, *bool) {
	t.Helper()
	sessions := NewSessions(Config{
		AppKey:        "test-app-key",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
	})

	reached := false
	handler := Middleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			t.Error("expected principal in request context")
		}
		reached = true
		w.WriteHeader(http.StatusOK)
	}))
	return sessions, handler, &reached
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	_, handler, reached := newTestMiddleware(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/patients", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if *reached {
		t.Error("handler should not have been reached")
	}
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	_, handler, _ := newTestMiddleware(t)

	req := httptest.NewRequest("GET", "/patients", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	_, handler, _ := newTestMiddleware(t)

	req := httptest.NewRequest("GET", "/patients", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	sessions, handler, reached := newTestMiddleware(t)

	token, _, err := sessions.Issue("test-app-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest("GET", "/patients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !*reached {
		t.Error("expected handler to be reached")
	}
}
