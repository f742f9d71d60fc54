package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates a bearer token string and returns its claims.
// The abstraction exists so the middleware can be tested without a live
// JWKS endpoint.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*Claims, error)
}

// JWKSConfig contains configuration for the JWKS verifier.
type JWKSConfig struct {
	// EnableVerification controls whether signatures are verified.
	// Disable only for local development.
	EnableVerification bool
	// JWKSURL is the issuer's JWKS endpoint.
	JWKSURL string
	// Issuer is the expected iss claim; empty skips the check.
	Issuer string
}

// JWKSVerifier validates JWT tokens against the auth provider's JWKS.
type JWKSVerifier struct {
	keys   keyfunc.Keyfunc
	config *JWKSConfig
}

// NewJWKSVerifier creates a verifier and, when verification is enabled,
// fetches the key set up front so a bad endpoint fails at startup.
func NewJWKSVerifier(ctx context.Context, config *JWKSConfig) (*JWKSVerifier, error) {
	verifier := &JWKSVerifier{config: config}

	if !config.EnableVerification {
		return verifier, nil
	}

	keys, err := keyfunc.NewDefaultCtx(ctx, []string{config.JWKSURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", config.JWKSURL, err)
	}
	verifier.keys = keys

	return verifier, nil
}

// VerifyToken validates a token and returns its claims. With verification
// disabled the token is parsed without a signature check.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*Claims, error) {
	if !v.config.EnableVerification {
		return v.parseUnverified(tokenString)
	}

	options := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		v.keys.KeyfuncCtx(context.Background()), options...)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return claims, nil
}

func (v *JWKSVerifier) parseUnverified(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return claims, nil
}

var _ TokenVerifier = (*JWKSVerifier)(nil)
