package workspace

import (
	"context"
	"strings"
	"sync"

	"github.com/rcliao/record-and-post/internal/model"
)

// ChatErrorReply is the model turn shown when the provider call fails.
const ChatErrorReply = "Error connecting to AI. Please try again."

// Chat is a Q&A conversation over one session transcript. Its history lives
// only as long as the Chat value.
type Chat struct {
	w         *Workspace
	sessionID string

	mu      sync.Mutex
	history []model.ChatMessage
}

// OpenChat starts an empty conversation about the session with id, or the
// current session when id is empty.
func (w *Workspace) OpenChat(ctx context.Context, id string) (*Chat, error) {
	sess, err := w.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Chat{w: w, sessionID: sess.ID}, nil
}

// SessionID is the session the conversation is about.
func (c *Chat) SessionID() string { return c.sessionID }

// History returns a copy of the turns so far.
func (c *Chat) History() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ChatMessage(nil), c.history...)
}

// Send appends the user turn, asks the provider and appends its reply. A
// failed call appends ChatErrorReply instead and is not returned as an
// error. Blank input is ignored and yields ok == false.
func (c *Chat) Send(ctx context.Context, text string) (reply string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prior := append([]model.ChatMessage(nil), c.history...)
	c.history = append(c.history, model.ChatMessage{Role: model.RoleUser, Text: text})

	reply = ChatErrorReply
	sess, err := c.w.store.Get(ctx, c.sessionID)
	if err == nil {
		var answer string
		answer, err = c.w.gateway.ChatWithSession(ctx, c.w.Settings().Model, sess.Transcript, prior, text)
		if err == nil {
			reply = answer
		}
	}
	if err != nil {
		c.w.log.Warn(ctx, "chat failed", "session", c.sessionID, "error", err)
	}

	c.history = append(c.history, model.ChatMessage{Role: model.RoleModel, Text: reply})
	return reply, true
}
