package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/services/supabase"
	"github.com/sahilchouksey/edupath-api/utils/auth"
	"github.com/sahilchouksey/edupath-api/utils/logger"
	"github.com/sahilchouksey/edupath-api/utils/response"
)

// FallbackName is the display name when neither token nor profile carry one
const FallbackName = "User"

var errMissingToken = errors.New("missing authorization token")

// UserResolver looks up the identity behind the access token stored in ctx
type UserResolver interface {
	GetCurrentUser(ctx context.Context) *model.AuthUser
	GetUserProfile(ctx context.Context, userID string) *model.UserProfile
}

// AuthMiddleware authenticates Supabase access tokens
type AuthMiddleware struct {
	verifier *auth.TokenVerifier
	resolver UserResolver
	revoked  *auth.RevocationList
	log      *logger.Logger
}

// NewAuthMiddleware creates a new auth middleware. With a nil verifier every
// token is checked against the remote user endpoint through resolver.
func NewAuthMiddleware(verifier *auth.TokenVerifier, resolver UserResolver, revoked *auth.RevocationList, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthMiddleware{
		verifier: verifier,
		resolver: resolver,
		revoked:  revoked,
		log:      log,
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid authorization format")
	}
	return parts[1], nil
}

// authenticate resolves the caller; the returned message is safe to show the client
func (m *AuthMiddleware) authenticate(c *fiber.Ctx, token string) (*model.AuthUser, string) {
	if m.revoked != nil {
		isRevoked, err := m.revoked.IsRevoked(c.Context(), token)
		if err != nil {
			// a cache outage must not lock every user out
			m.log.Warn("revocation check failed", "error", err)
		} else if isRevoked {
			return nil, "Token has been revoked"
		}
	}

	if m.verifier != nil {
		claims, err := m.verifier.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return nil, "Token has expired"
			}
			return nil, "Invalid token"
		}
		return &model.AuthUser{ID: claims.UserID(), Email: claims.Email, Name: m.displayName(c, token, claims)}, ""
	}

	user := m.resolver.GetCurrentUser(supabase.WithAccessToken(c.UserContext(), token))
	if user == nil {
		return nil, "Invalid token"
	}
	return user, ""
}

// displayName prefers the profile row so locally verified identities match
// the ones the bridge returns; token metadata covers a missing profile.
func (m *AuthMiddleware) displayName(c *fiber.Ctx, token string, claims *auth.Claims) string {
	if m.resolver != nil {
		ctx := supabase.WithAccessToken(c.UserContext(), token)
		if profile := m.resolver.GetUserProfile(ctx, claims.UserID()); profile != nil && profile.Name != "" {
			return profile.Name
		}
	}
	if name := claims.Name(); name != "" {
		return name
	}
	return FallbackName
}

func setUser(c *fiber.Ctx, user *model.AuthUser, token string) {
	c.Locals("user", user)
	c.Locals("user_id", user.ID)
	c.Locals("access_token", token)
	c.SetUserContext(supabase.WithAccessToken(c.UserContext(), token))
}

// Required is middleware that requires a valid access token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			if errors.Is(err, errMissingToken) {
				return response.Unauthorized(c, "Missing authorization token")
			}
			return response.Unauthorized(c, "Invalid authorization format")
		}

		user, msg := m.authenticate(c, token)
		if user == nil {
			return response.Unauthorized(c, msg)
		}

		setUser(c, user, token)
		return c.Next()
	}
}

// Optional is middleware that allows requests with or without a token
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return c.Next()
		}

		if user, _ := m.authenticate(c, token); user != nil {
			setUser(c, user, token)
		}
		return c.Next()
	}
}

// GetUser extracts the authenticated user from context
func GetUser(c *fiber.Ctx) (*model.AuthUser, bool) {
	user, ok := c.Locals("user").(*model.AuthUser)
	return user, ok && user != nil
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("user_id").(string)
	return id, ok && id != ""
}

// GetAccessToken extracts the raw bearer token from context
func GetAccessToken(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals("access_token").(string)
	return token, ok && token != ""
}
