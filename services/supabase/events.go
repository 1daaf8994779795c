package supabase

import "context"

// Event names a session transition
type Event string

const (
	EventSignedIn  Event = "SIGNED_IN"
	EventSignedOut Event = "SIGNED_OUT"
)

// SessionEvent is delivered to listeners. Session is nil on sign-out.
type SessionEvent struct {
	Event   Event
	Session *Session
}

// Listener receives session events synchronously, on the goroutine that caused them
type Listener func(ctx context.Context, ev SessionEvent)

// Subscribe registers l and returns a function that removes it
func (c *Client) Subscribe(l Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(ctx context.Context, ev SessionEvent) {
	c.mu.RLock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, ev)
	}
}
