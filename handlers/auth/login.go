package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
	"github.com/sahilchouksey/edupath-api/utils/response"
	"github.com/sahilchouksey/edupath-api/utils/validation"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = validation.SanitizeString(req.Email)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	ip := c.IP()

	result := h.bridge.SignIn(c.UserContext(), req.Email, req.Password)
	if !result.Success {
		if h.bruteForceProtection != nil {
			if err := h.bruteForceProtection.RecordFailedAttempt(c, ip, req.Email); err != nil {
				h.log.Warn("failed to record login attempt", "ip", ip, "error", err)
			}
		}
		return response.Unauthorized(c, result.Message)
	}

	// Clear failed attempts on successful login
	if h.bruteForceProtection != nil {
		if err := h.bruteForceProtection.RecordSuccessfulAttempt(c, ip); err != nil {
			h.log.Warn("failed to clear login attempts", "ip", ip, "error", err)
		}
	}

	return response.SuccessWithMessage(c, result.Message, result)
}

// Logout handles POST /api/v1/auth/logout
// The token is revoked locally even when the provider call fails.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := middleware.GetAccessToken(c)
	if !ok {
		return response.Unauthorized(c, "Missing authorization token")
	}

	result := h.bridge.SignOut(c.UserContext())

	if h.revoker != nil {
		if err := h.revoker.Revoke(c.UserContext(), token); err != nil {
			h.log.Warn("failed to revoke token", "error", err)
		}
	}

	if !result.Success {
		return response.ErrorWithDetails(c, fiber.StatusBadGateway, result.Message, "SIGNOUT_FAILED", result.Error)
	}
	return response.SuccessWithMessage(c, result.Message, nil)
}

// Me handles GET /api/v1/auth/me
// Without a valid session it reports a guest rather than failing.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Success(c, fiber.Map{"authenticated": false, "user": nil})
	}
	return response.Success(c, fiber.Map{"authenticated": true, "user": user})
}
