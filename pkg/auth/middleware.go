package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/facultyportal/research-engine/pkg/apperrors"
	"github.com/facultyportal/research-engine/pkg/repositories"
)

// Middleware authenticates chatbot requests: it verifies the bearer token,
// loads the caller's profile (id, role, department) from the database, and
// attaches it to the request context. Any failure is a 401; downstream
// handlers never see an unauthenticated request.
type Middleware struct {
	verifier TokenVerifier
	profiles repositories.ProfileRepository
	logger   *zap.Logger
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(verifier TokenVerifier, profiles repositories.ProfileRepository, logger *zap.Logger) *Middleware {
	return &Middleware{
		verifier: verifier,
		profiles: profiles,
		logger:   logger.Named("auth"),
	}
}

// RequireProfile wraps a handler with token verification and profile
// resolution.
func (m *Middleware) RequireProfile(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			m.unauthorized(w, "No token provided")
			return
		}

		claims, err := m.verifier.VerifyToken(token)
		if err != nil {
			m.logger.Debug("token verification failed", zap.Error(err))
			m.unauthorized(w, "Unauthorized")
			return
		}

		profileID, err := uuid.Parse(claims.Subject)
		if err != nil {
			m.logger.Debug("token subject is not a profile id",
				zap.String("sub", claims.Subject))
			m.unauthorized(w, "Unauthorized")
			return
		}

		profile, err := m.profiles.GetByID(r.Context(), profileID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrProfileNotFound) {
				m.logger.Error("profile lookup failed", zap.Error(err))
			}
			m.unauthorized(w, "Unauthorized")
			return
		}
		if !profile.Role.Valid() {
			m.logger.Warn("profile has unknown role",
				zap.String("profile_id", profile.ID.String()),
				zap.String("role", string(profile.Role)))
			m.unauthorized(w, "Unauthorized")
			return
		}

		next(w, r.WithContext(WithProfile(r.Context(), profile)))
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// unauthorized returns a 401 response with a JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
