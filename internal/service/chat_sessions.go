package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/google/uuid"
)

// Responder produces one assistant reply for a message and its history.
type Responder interface {
	Respond(ctx context.Context, userText string, history []model.ChatTurn) (Reply, error)
}

type chatSession struct {
	history []model.ChatTurn
	cancel  context.CancelFunc
	gen     uint64
}

// ChatSessions keeps one conversation per session id. A new send on a session
// cancels the call still in flight on that session.
type ChatSessions struct {
	responder Responder

	mu       sync.Mutex
	sessions map[string]*chatSession
}

func NewChatSessions(responder Responder) *ChatSessions {
	return &ChatSessions{
		responder: responder,
		sessions:  make(map[string]*chatSession),
	}
}

// Send runs one exchange on sessionID, creating a new session when the id is empty.
// It returns the id that was used.
func (c *ChatSessions) Send(ctx context.Context, sessionID, text string) (string, Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	c.mu.Lock()
	sess, ok := c.sessions[sessionID]
	if !ok {
		sess = &chatSession{}
		c.sessions[sessionID] = sess
	}
	if sess.cancel != nil {
		sess.cancel()
	}
	callCtx, cancel := context.WithCancel(ctx)
	sess.gen++
	gen := sess.gen
	sess.cancel = cancel
	history := append([]model.ChatTurn(nil), sess.history...)
	c.mu.Unlock()
	defer cancel()

	reply, err := c.responder.Respond(callCtx, text, history)

	c.mu.Lock()
	defer c.mu.Unlock()
	// a superseded exchange must not overwrite the newer one's history
	if sess.gen == gen {
		sess.cancel = nil
		if !errors.Is(err, ErrInvalidInput) {
			sess.history = reply.History
		}
	}
	return sessionID, reply, err
}

// Cancel stops the in-flight call of a session. It reports whether there was one.
func (c *ChatSessions) Cancel(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.sessions[sessionID]
	if !ok || sess.cancel == nil {
		return false
	}
	sess.cancel()
	sess.cancel = nil
	return true
}

// History returns a copy of a session's turns.
func (c *ChatSessions) History(sessionID string) ([]model.ChatTurn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return append([]model.ChatTurn(nil), sess.history...), true
}
