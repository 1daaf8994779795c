package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/authbridge"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/logger"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
	"github.com/sahilchouksey/edupath-api/utils/response"
	"github.com/sahilchouksey/edupath-api/utils/validation"
)

// Bridge is the subset of authbridge.Bridge used by the auth handlers
type Bridge interface {
	SignUp(ctx context.Context, email, password, name string) authbridge.Result
	SignIn(ctx context.Context, email, password string) authbridge.Result
	SignOut(ctx context.Context) authbridge.Result
	GetUserProfile(ctx context.Context, userID string) *model.UserProfile
	UpdateUserProfile(ctx context.Context, userID string, update model.ProfileUpdate) authbridge.Result
}

// TokenRevoker remembers tokens that were signed out
type TokenRevoker interface {
	Revoke(ctx context.Context, token string) error
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	bridge               Bridge
	revoker              TokenRevoker
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
	log                  *logger.Logger
}

// NewAuthHandler creates a new auth handler. revoker and bruteForceProtection may be nil.
func NewAuthHandler(bridge Bridge, revoker TokenRevoker, bruteForceProtection *middleware.BruteForceProtection, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		bridge:               bridge,
		revoker:              revoker,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
		log:                  log,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = validation.SanitizeString(req.Email)
	req.Name = validation.SanitizeString(req.Name)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	if ok, problems := validation.ValidatePassword(req.Password); !ok {
		return response.ValidationError(c, map[string]string{"password": problems[0]})
	}

	result := h.bridge.SignUp(c.UserContext(), req.Email, req.Password, req.Name)
	if !result.Success {
		return response.ErrorWithDetails(c, fiber.StatusBadRequest, result.Message, "SIGNUP_FAILED", result.Error)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success: true,
		Message: result.Message,
		Data:    result,
	})
}
