package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/GregMSThompson/energyhub-backend/internal/metrics"
	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

type stubVerifier struct {
	token    *auth.Token
	err      error
	gotToken string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.gotToken = idToken
	return s.token, s.err
}

func TestFirebaseAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		v := &stubVerifier{}
		called := false
		h := NewMiddleware(v).FirebaseAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

		req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%q: status = %d, want 401", header, rr.Code)
		}
		if called || v.gotToken != "" {
			t.Fatalf("%q: request should not reach verifier or handler", header)
		}
	}
}

func TestFirebaseAuthRejectsInvalidToken(t *testing.T) {
	v := &stubVerifier{err: errors.New("expired")}
	h := NewMiddleware(v).FirebaseAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if v.gotToken != "tok-1" {
		t.Fatalf("verifier got %q", v.gotToken)
	}
}

func TestFirebaseAuthPutsIdentityInContext(t *testing.T) {
	v := &stubVerifier{token: &auth.Token{UID: "uid-123", Claims: map[string]any{"email": "jane@example.com"}}}

	var uid, email string
	h := NewMiddleware(v).FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid = UID(r.Context())
		email = Email(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/loans", nil)
	req.Header.Set("Authorization", "bearer tok-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if uid != "uid-123" || email != "jane@example.com" {
		t.Fatalf("unexpected identity uid=%q email=%q", uid, email)
	}
}

func TestLoggerMiddlewareStoresRequestLogger(t *testing.T) {
	base := slog.New(logger.NewTestHandler(slog.LevelInfo))

	var got *slog.Logger
	h := chimiddleware.RequestID(NewLoggerMiddleware(base).LoggerMiddleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = logger.FromContext(r.Context())
		}),
	))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/loans", nil))

	if got == nil || got == base || got == slog.Default() {
		t.Fatalf("expected an enriched request logger in context")
	}
}

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/loans/{loanId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/loans/{loanId}", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/loans/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Fatalf("counter increased by %v, want 3", got)
	}
}
