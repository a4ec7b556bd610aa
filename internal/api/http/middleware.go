package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/security"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type actorKey struct{}

// ActorFromContext returns the authenticated staff member of the request
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(domain.Actor)
	return a, ok
}

func WithActor(ctx context.Context, a domain.Actor) context.Context {
	return logger.WithActorID(context.WithValue(ctx, actorKey{}, a), a.UserID)
}

// requestID tags every request with an id, reusing the caller's when given
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// AuthMiddleware accepts bearer access tokens of staff members only
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error: "authorization token is not provided", Code: "unauthenticated", RequestID: logger.RequestID(r.Context()),
			})
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, security.ErrExpiredToken) {
				msg = "token has expired"
			}
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error: msg, Code: "unauthenticated", RequestID: logger.RequestID(r.Context()),
			})
			return
		}

		actor := claims.Actor()
		if !actor.IsStaff() {
			writeError(w, r, domain.ErrPermissionDenied)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, token != ""
}
