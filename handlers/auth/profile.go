package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
	"github.com/sahilchouksey/edupath-api/utils/response"
	"github.com/sahilchouksey/edupath-api/utils/validation"
)

// UpdateProfileRequest is a partial profile update; absent fields are left alone
type UpdateProfileRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Class         *string   `json:"class" validate:"omitempty,max=50"`
	Interests     *[]string `json:"interests" validate:"omitempty,max=20,dive,min=1,max=60"`
	CompletedQuiz *bool     `json:"completed_quiz"`
}

// GetProfile handles GET /api/v1/profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	profile := h.bridge.GetUserProfile(c.UserContext(), userID)
	if profile == nil {
		return response.NotFound(c, "Profile not found")
	}

	return response.Success(c, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name != nil {
		name := validation.SanitizeString(*req.Name)
		req.Name = &name
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	if req.Name == nil && req.Class == nil && req.Interests == nil && req.CompletedQuiz == nil {
		return response.BadRequest(c, "No fields to update")
	}

	result := h.bridge.UpdateUserProfile(c.UserContext(), userID, model.ProfileUpdate{
		Name:          req.Name,
		Class:         req.Class,
		Interests:     req.Interests,
		CompletedQuiz: req.CompletedQuiz,
	})
	if !result.Success {
		return response.ErrorWithDetails(c, fiber.StatusBadGateway, result.Message, "PROFILE_UPDATE_FAILED", result.Error)
	}

	return response.SuccessWithMessage(c, result.Message, result.Data)
}
