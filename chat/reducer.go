package chat

import (
	"time"

	"github.com/sahilchouksey/edupath-api/model"
)

// FallbackReply replaces the bot reply whenever the completion call fails
const FallbackReply = "I apologize, but I'm having trouble processing your request right now. Please try again in a moment."

// Outcome is the settled result of one completion request
type Outcome struct {
	ID    string
	At    time.Time
	Reply string
	Err   error
}

// Message builds the bot message an outcome contributes to the transcript
func (o Outcome) Message() model.ChatMessage {
	text := o.Reply
	if o.Err != nil {
		text = FallbackReply
	}
	return model.ChatMessage{
		ID:        o.ID,
		Message:   text,
		Sender:    model.MessageSenderBot,
		Timestamp: o.At,
	}
}

// Reduce returns a new transcript with the outcome's bot message appended.
// The input slice is never modified.
func Reduce(transcript []model.ChatMessage, o Outcome) []model.ChatMessage {
	next := make([]model.ChatMessage, len(transcript), len(transcript)+1)
	copy(next, transcript)
	return append(next, o.Message())
}
