// Package auth verifies bearer tokens and resolves the caller's profile.
// The identity it attaches to the request context is loaded server-side
// from the profiles table; nothing in it comes from the request body.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/facultyportal/research-engine/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ProfileKey is the context key for the verified caller profile.
	ProfileKey contextKey = "profile"
)

// Claims represents the JWT claims issued by the portal's auth provider.
// Only the subject (the profile id) is consumed; everything else used for
// access control is loaded from the database.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GetProfile retrieves the verified caller profile from the request context.
// Returns nil and false if no profile is present.
func GetProfile(ctx context.Context) (*models.Profile, bool) {
	profile, ok := ctx.Value(ProfileKey).(*models.Profile)
	return profile, ok
}

// WithProfile returns a context carrying the verified caller profile.
func WithProfile(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, ProfileKey, profile)
}
