package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/bookcart/internal/api"
	"github.com/nikolayk812/bookcart/internal/auth"
	"github.com/nikolayk812/bookcart/internal/domain"
	"github.com/rs/zerolog"
)

type authKey struct{}

// AuthFromContext returns the auth state attached by Authenticate, or anonymous.
func AuthFromContext(ctx context.Context) domain.Auth {
	a, ok := ctx.Value(authKey{}).(domain.Auth)
	if !ok {
		return domain.Anonymous()
	}
	return a
}

// Authenticate resolves the bearer token of every request. Requests without a valid token
// continue as anonymous; handlers decide what that means. The raw token is forwarded to
// backend API calls made with the request context.
func Authenticate(tokens *auth.TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			a := tokens.ParseHeader(header)

			ctx := context.WithValue(r.Context(), authKey{}, a)
			if a.IsAuthenticated {
				_, token, _ := strings.Cut(header, " ")
				ctx = api.WithBearerToken(ctx, strings.TrimSpace(token))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger logs one line per request with status and duration.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrapped, r)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			event := logger.Info()
			if status >= http.StatusInternalServerError {
				event = logger.Error()
			}

			userID := "anonymous"
			if a := AuthFromContext(r.Context()); auth.CanShowCart(a) {
				userID = a.User.ID
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", wrapped.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("user_id", userID).
				Msg("http request")
		})
	}
}
