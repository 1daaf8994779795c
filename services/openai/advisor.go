package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/logger"
)

const (
	// EmptyReply stands in for a completion with no content
	EmptyReply = "I'm sorry, I couldn't generate a response. Please try again."
	// RecommendationFallback is returned when recommendations cannot be generated
	RecommendationFallback = "Unable to generate personalized recommendations. Please try again later."
	// EmptyRecommendation stands in for an empty recommendations completion
	EmptyRecommendation = "Unable to generate recommendations at this time."

	chatMaxTokens           = 500
	recommendationMaxTokens = 800
	temperature             = 0.7
)

const advisorPrompt = `You are EduPath Advisor, an AI educational counselor specializing in helping Indian students make informed decisions about their educational and career paths. 

Your expertise includes:
- Career guidance and counseling
- College and course recommendations
- Educational planning and timeline management
- Academic and professional development advice
- Indian education system knowledge (CBSE, ICSE, State boards, JEE, NEET, etc.)

Context: %s

Provide helpful, accurate, and encouraging responses. If you don't know something specific, suggest where the student can find more information.`

const recommenderPrompt = "You are an expert educational counselor for Indian students. Provide specific, actionable recommendations."

// Advisor turns student questions and profiles into completion calls
type Advisor struct {
	client *Client
	log    *logger.Logger
}

func NewAdvisor(client *Client, log *logger.Logger) *Advisor {
	if log == nil {
		log = logger.Nop()
	}
	return &Advisor{client: client, log: log}
}

// Complete answers one chat turn. Transport and provider errors are returned
// so the chat session can substitute its own fallback.
func (a *Advisor) Complete(ctx context.Context, message, contextLine string) (string, error) {
	reply, err := a.client.SimpleCompletion(ctx,
		fmt.Sprintf(advisorPrompt, contextLine),
		message,
		WithMaxTokens(chatMaxTokens),
		WithTemperature(temperature),
	)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return EmptyReply, nil
	}
	return reply, nil
}

// Recommend produces course and college suggestions for a profile. It never fails.
func (a *Advisor) Recommend(ctx context.Context, profile model.UserProfile) string {
	reply, err := a.client.SimpleCompletion(ctx,
		recommenderPrompt,
		RecommendationPrompt(profile),
		WithMaxTokens(recommendationMaxTokens),
		WithTemperature(temperature),
	)
	if err != nil {
		a.log.Error("recommendation completion failed", "user_id", profile.ID, "error", err)
		return RecommendationFallback
	}
	if reply == "" {
		return EmptyRecommendation
	}
	return reply
}

// RecommendationPrompt renders the student profile into the user prompt
func RecommendationPrompt(profile model.UserProfile) string {
	interests := "Not specified"
	if len(profile.Interests) > 0 {
		interests = strings.Join(profile.Interests, ", ")
	}
	quiz := "No"
	if profile.CompletedQuiz {
		quiz = "Yes"
	}

	return fmt.Sprintf(`Based on this student profile, generate personalized educational recommendations:

Student Profile:
- Class: %s
- Interests: %s
- Completed Quiz: %s

Generate 3-5 specific course and college recommendations with brief explanations. Focus on Indian educational institutions and career paths.`, profile.Class, interests, quiz)
}
