package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/logger"
)

var (
	ErrEmptyMessage    = errors.New("chat: message is empty")
	ErrAwaitingReply   = errors.New("chat: a reply is still pending")
	ErrSessionNotFound = errors.New("chat: session not found")
)

// State of a chat session
type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// MarshalText lets State render as its name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Completer produces the advisor's reply to one user turn
type Completer interface {
	Complete(ctx context.Context, message, contextLine string) (string, error)
}

// Session is one advisor conversation. It is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	identity   Identity
	completer  Completer
	log        *logger.Logger
	now        func() time.Time
	state      State
	transcript []model.ChatMessage
	pending    *Pending
	lastID     int64
	lastAt     time.Time
	lastActive time.Time
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithClock overrides time.Now
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger attaches a logger for swallowed completion failures
func WithLogger(log *logger.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSession starts an idle session holding a single welcome message
func NewSession(identity Identity, completer Completer, opts ...SessionOption) *Session {
	s := &Session{
		identity:  identity,
		completer: completer,
		log:       logger.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	id, at := s.stamp()
	s.transcript = []model.ChatMessage{{
		ID:        id,
		Message:   identity.Welcome(),
		Sender:    model.MessageSenderBot,
		Timestamp: at,
	}}
	s.lastActive = at
	return s
}

// Submit appends the user's message and starts exactly one completion request.
// The returned Pending settles once the bot reply is in the transcript.
// Completion failures are never returned; they turn into FallbackReply.
func (s *Session) Submit(ctx context.Context, text string) (*Pending, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == StateAwaitingReply {
		s.mu.Unlock()
		return nil, ErrAwaitingReply
	}

	id, at := s.stamp()
	msg := model.ChatMessage{
		ID:        id,
		Message:   trimmed,
		Sender:    model.MessageSenderUser,
		Timestamp: at,
	}
	s.transcript = append(s.transcript, msg)
	s.state = StateAwaitingReply
	s.lastActive = at

	p := newPending(msg)
	s.pending = p
	contextLine := s.identity.ContextLine()
	s.mu.Unlock()

	// the reply outlives the request that triggered it
	go s.await(context.WithoutCancel(ctx), p, trimmed, contextLine)

	return p, nil
}

func (s *Session) await(ctx context.Context, p *Pending, text, contextLine string) {
	reply, err := s.completer.Complete(ctx, text, contextLine)
	if err != nil {
		s.log.Warn("completion failed, using fallback reply", "error", err)
	}

	s.mu.Lock()
	id, at := s.stamp()
	outcome := Outcome{ID: id, At: at, Reply: reply, Err: err}
	// a Reset while this call was in flight does not discard the reply
	s.transcript = Reduce(s.transcript, outcome)
	s.state = StateIdle
	s.pending = nil
	s.lastActive = at
	s.mu.Unlock()

	p.settle(outcome.Message(), err)
}

// Reset replaces the transcript with a fresh greeting.
// An outstanding request keeps running and its reply lands on the new transcript.
func (s *Session) Reset() model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, at := s.stamp()
	msg := model.ChatMessage{
		ID:        id,
		Message:   s.identity.ResetGreeting(),
		Sender:    model.MessageSenderBot,
		Timestamp: at,
	}
	s.transcript = []model.ChatMessage{msg}
	s.lastActive = at
	return msg
}

// Transcript returns a snapshot of the conversation
func (s *Session) Transcript() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the outstanding request, or nil when idle
func (s *Session) Pending() *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) Identity() Identity {
	return s.identity
}

// LastActive is the time of the latest transcript change
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// stamp hands out a strictly increasing millisecond id and a non-decreasing timestamp.
// Callers must hold s.mu or own s exclusively.
func (s *Session) stamp() (string, time.Time) {
	at := s.now()
	if at.Before(s.lastAt) {
		at = s.lastAt
	}
	s.lastAt = at

	n := at.UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	s.lastID = n
	return strconv.FormatInt(n, 10), at
}

// Pending is the future returned by Submit
type Pending struct {
	user  model.ChatMessage
	done  chan struct{}
	reply model.ChatMessage
	cause error
}

func newPending(user model.ChatMessage) *Pending {
	return &Pending{user: user, done: make(chan struct{})}
}

func (p *Pending) settle(reply model.ChatMessage, cause error) {
	p.reply = reply
	p.cause = cause
	close(p.done)
}

// UserMessage is the message appended when the request was accepted
func (p *Pending) UserMessage() model.ChatMessage {
	return p.user
}

// Done is closed once the bot reply has been appended
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the reply settles or ctx ends.
// Only ctx errors are returned; provider failures surface as FallbackReply.
func (p *Pending) Wait(ctx context.Context) (model.ChatMessage, error) {
	select {
	case <-p.done:
		return p.reply, nil
	case <-ctx.Done():
		return model.ChatMessage{}, ctx.Err()
	}
}

// Cause reports the provider error behind a fallback reply. It is nil until Done.
func (p *Pending) Cause() error {
	select {
	case <-p.done:
		return p.cause
	default:
		return nil
	}
}
