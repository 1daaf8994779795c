package chat

import (
	"bufio"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupath-api/chat"
	"github.com/sahilchouksey/edupath-api/model"
	"github.com/sahilchouksey/edupath-api/utils/logger"
	"github.com/sahilchouksey/edupath-api/utils/middleware"
	"github.com/sahilchouksey/edupath-api/utils/response"
	"github.com/sahilchouksey/edupath-api/utils/sse"
	"github.com/sahilchouksey/edupath-api/utils/validation"
)

// DefaultKeepAlive is the interval between SSE keep-alive comments
const DefaultKeepAlive = 15 * time.Second

// ChatHandler handles the chat widget endpoints
type ChatHandler struct {
	sessions  *chat.Manager
	validator *validation.Validator
	keepAlive time.Duration
	log       *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(sessions *chat.Manager, log *logger.Logger) *ChatHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatHandler{
		sessions:  sessions,
		validator: validation.NewValidator(),
		keepAlive: DefaultKeepAlive,
		log:       log,
	}
}

// SendMessageRequest is the body of a chat submission
type SendMessageRequest struct {
	Message string `json:"message" validate:"max=4000"`
}

// SessionResponse is the snapshot of a chat session
type SessionResponse struct {
	ID       string              `json:"id"`
	State    chat.State          `json:"state"`
	Messages []model.ChatMessage `json:"messages"`
}

func snapshot(id string, s *chat.Session) SessionResponse {
	return SessionResponse{ID: id, State: s.State(), Messages: s.Transcript()}
}

// session resolves :id for the caller; guests only reach guest sessions
func (h *ChatHandler) session(c *fiber.Ctx) (string, *chat.Session, error) {
	id := c.Params("id")
	owner, _ := middleware.GetUserID(c)
	s, err := h.sessions.Get(id, owner)
	return id, s, err
}

// CreateSession handles POST /api/v1/chat/sessions
func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	identity := chat.Identity{}
	owner := ""
	if user, ok := middleware.GetUser(c); ok {
		identity = chat.Identity{Authenticated: true, Name: user.Name}
		owner = user.ID
	}

	id, s := h.sessions.Create(identity, owner)
	h.log.Debug("chat session created", "chat_session", id, "authenticated", identity.Authenticated)

	return response.Created(c, snapshot(id, s))
}

// GetSession handles GET /api/v1/chat/sessions/:id
func (h *ChatHandler) GetSession(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return response.NotFound(c, "Chat session not found")
	}
	return response.Success(c, snapshot(id, s))
}

// SendMessage handles POST /api/v1/chat/sessions/:id/messages
// The user message is appended before this returns; the reply arrives on the stream.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return response.NotFound(c, "Chat session not found")
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	pending, err := s.Submit(c.UserContext(), req.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return response.Accepted(c, "Empty message ignored", fiber.Map{
			"accepted": false,
			"state":    s.State(),
		})
	case errors.Is(err, chat.ErrAwaitingReply):
		return response.Error(c, fiber.StatusConflict, "Please wait for the current reply", "AWAITING_REPLY")
	case err != nil:
		h.log.Error("chat submit failed", "chat_session", id, "error", err)
		return response.InternalServerError(c, "Failed to send message")
	}

	return response.Accepted(c, "Message accepted", fiber.Map{
		"accepted": true,
		"message":  pending.UserMessage(),
		"state":    chat.StateAwaitingReply,
	})
}

// StreamReply handles GET /api/v1/chat/sessions/:id/stream
// It emits the pending bot reply as an SSE "message" event, then "complete"
// with the full transcript. An idle session completes immediately.
func (h *ChatHandler) StreamReply(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return response.NotFound(c, "Chat session not found")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	pending := s.Pending()
	keepAlive := h.keepAlive
	log := h.log

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if pending != nil {
			if err := sse.SendTyping(w); err != nil {
				return
			}

			ticker := time.NewTicker(keepAlive)
			defer ticker.Stop()

		wait:
			for {
				select {
				case <-pending.Done():
					break wait
				case <-ticker.C:
					if err := sse.SendKeepAlive(w); err != nil {
						// client went away; the reply still lands in the transcript
						return
					}
				}
			}

			reply, _ := pending.Wait(context.Background())
			if err := sse.SendMessage(w, reply); err != nil {
				return
			}
			if cause := pending.Cause(); cause != nil {
				log.Debug("streamed fallback reply", "chat_session", id, "error", cause)
			}
		}

		if err := sse.SendComplete(w, snapshot(id, s)); err != nil {
			log.Debug("failed to send complete event", "chat_session", id, "error", err)
		}
	})

	return nil
}

// ResetSession handles POST /api/v1/chat/sessions/:id/reset
func (h *ChatHandler) ResetSession(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if err != nil {
		return response.NotFound(c, "Chat session not found")
	}

	s.Reset()
	return response.SuccessWithMessage(c, "Chat reset", snapshot(id, s))
}

// DeleteSession handles DELETE /api/v1/chat/sessions/:id
func (h *ChatHandler) DeleteSession(c *fiber.Ctx) error {
	owner, _ := middleware.GetUserID(c)
	if err := h.sessions.Delete(c.Params("id"), owner); err != nil {
		return response.NotFound(c, "Chat session not found")
	}
	return response.SuccessWithMessage(c, "Chat session deleted", nil)
}
