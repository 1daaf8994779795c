package model

import "time"

// MessageSender identifies who authored a chat message
type MessageSender string

const (
	MessageSenderUser MessageSender = "user"
	MessageSenderBot  MessageSender = "bot"
)

// ChatMessage is a single entry in an advisor chat transcript.
// Messages are never mutated once appended.
type ChatMessage struct {
	ID        string        `json:"id"`
	Message   string        `json:"message"`
	Sender    MessageSender `json:"sender"`
	Timestamp time.Time     `json:"timestamp"`
}
