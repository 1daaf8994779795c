package chat

import "fmt"

// DefaultName is used when an authenticated caller has no display name
const DefaultName = "Student"

// Identity describes who is talking to the advisor
type Identity struct {
	Authenticated bool
	Name          string
}

func (i Identity) displayName() string {
	if i.Name == "" {
		return DefaultName
	}
	return i.Name
}

// ContextLine summarises the caller for the completion provider
func (i Identity) ContextLine() string {
	if !i.Authenticated {
		return "User: Guest, Authenticated: false"
	}
	return fmt.Sprintf("User: %s, Authenticated: true", i.displayName())
}

// Welcome is the greeting a brand-new session opens with
func (i Identity) Welcome() string {
	if !i.Authenticated {
		return "Hi there! 👋 I'm your EduPath AI assistant. I can help you explore courses, colleges, and career paths. For personalized recommendations, please log in to your account. How can I help you today?"
	}
	return fmt.Sprintf("Hi %s! 👋 I'm your EduPath AI assistant. I can help you with course recommendations, college information, career guidance, and answer any questions about your educational journey. How can I assist you today?", i.displayName())
}

// ResetGreeting is the shorter greeting left after a reset
func (i Identity) ResetGreeting() string {
	if !i.Authenticated {
		return "Hi there! How can I assist you with your educational journey?"
	}
	return fmt.Sprintf("Hi %s! How can I help you today?", i.displayName())
}
