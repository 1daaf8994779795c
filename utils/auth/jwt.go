package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// AuthenticatedAudience is the audience Supabase puts on signed-in user tokens
const AuthenticatedAudience = "authenticated"

// Claims represents the claims of a Supabase access token
type Claims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	SessionID    string                 `json:"session_id,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// UserID is the token subject
func (c *Claims) UserID() string {
	return c.Subject
}

// Name returns the display name stored in user metadata at sign-up
func (c *Claims) Name() string {
	if c.UserMetadata == nil {
		return ""
	}
	name, _ := c.UserMetadata["name"].(string)
	return name
}

// TokenVerifier checks Supabase access tokens locally using the project's JWT secret
type TokenVerifier struct {
	secret []byte
	leeway time.Duration
}

// NewTokenVerifier returns nil when secret is empty; callers then rely on the remote user endpoint
func NewTokenVerifier(secret string) *TokenVerifier {
	if secret == "" {
		return nil
	}
	return &TokenVerifier{secret: []byte(secret), leeway: 30 * time.Second}
}

// Verify validates the signature, expiry and audience of an access token
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithLeeway(v.leeway), jwt.WithAudience(AuthenticatedAudience), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// ExpiryOf reads the exp claim without verifying the token
func ExpiryOf(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return time.Time{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidClaims
	}
	return claims.ExpiresAt.Time, nil
}
