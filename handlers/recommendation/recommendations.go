package recommendation

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
	"github.com/sahilchouksey/edupath-api/utils/response"
)

// ProfileReader loads the stored profile of a user
type ProfileReader interface {
	GetUserProfile(ctx context.Context, userID string) *model.UserProfile
}

// Recommender turns a profile into advice text. It never fails.
type Recommender interface {
	Recommend(ctx context.Context, profile model.UserProfile) string
}

// RecommendationHandler serves personalised course and career advice
type RecommendationHandler struct {
	profiles    ProfileReader
	recommender Recommender
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(profiles ProfileReader, recommender Recommender) *RecommendationHandler {
	return &RecommendationHandler{profiles: profiles, recommender: recommender}
}

// GetRecommendations handles GET /api/v1/recommendations
// Without a stored profile the advice is built from the account name alone.
func (h *RecommendationHandler) GetRecommendations(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	profile := h.profiles.GetUserProfile(c.UserContext(), user.ID)
	if profile == nil {
		profile = &model.UserProfile{ID: user.ID, Email: user.Email, Name: user.Name}
	}

	text := h.recommender.Recommend(c.UserContext(), *profile)
	return response.Success(c, fiber.Map{
		"recommendations": text,
		"profile":         profile,
	})
}
