package model

import "time"

// AuthUser is the simplified identity handed to the rest of the application
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserProfile mirrors a row of the remote user_profiles table
type UserProfile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Class         string    `json:"class"`
	Interests     []string  `json:"interests"`
	CompletedQuiz bool      `json:"completed_quiz"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfileUpdate is a partial update of a UserProfile. Nil fields are left untouched.
type ProfileUpdate struct {
	Name          *string   `json:"name,omitempty"`
	Class         *string   `json:"class,omitempty"`
	Interests     *[]string `json:"interests,omitempty"`
	CompletedQuiz *bool     `json:"completed_quiz,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}
