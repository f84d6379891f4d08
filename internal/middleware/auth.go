package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/energyhub-backend/pkg/logger"
)

// tokenVerifier is satisfied by *auth.Client.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient tokenVerifier
}

func NewMiddleware(client tokenVerifier) *Middleware {
	return &Middleware{AuthClient: client}
}

// context key
type contextKey string

const (
	UIDKey   contextKey = "uid"
	EmailKey contextKey = "email"
)

// FirebaseAuth rejects requests without a valid Firebase ID token.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		// Verify ID Token
		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			log.Warn("id token rejected", "error", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		email, _ := token.Claims["email"].(string)

		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		ctx = context.WithValue(ctx, EmailKey, email)
		_, ctx = logger.With(ctx, "uid", token.UID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}
