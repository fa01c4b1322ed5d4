package controller

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yasmin191/hackathon-todo-evolution/internal/client"
	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
)

const (
	welcomeTurnID = "welcome"
	// pendingTurnID is a fixed sentinel: there can only ever be one pending
	// placeholder in the turn list.
	pendingTurnID = "pending"
)

const welcomeText = "Hello! I'm your task assistant. You can ask me to:\n\n" +
	"• Add tasks (e.g., \"Add a task to buy groceries\")\n" +
	"• Show your tasks (e.g., \"What do I need to do?\")\n" +
	"• Complete tasks (e.g., \"Mark task 1 as complete\")\n" +
	"• Delete tasks (e.g., \"Delete task 2\")\n\n" +
	"How can I help you today?"

// Turn is one entry of the conversation as shown to the user. Server-persisted
// turns carry the numeric message id as a string; locally-created turns use a
// transient id that is never sent anywhere.
type Turn struct {
	ID      string
	Role    models.Role
	Content string
	Pending bool
}

// Chat owns the ordered turn list of one conversation. A fresh controller is
// seeded with a synthetic welcome turn that never reaches the server.
type Chat struct {
	api client.ChatAPI

	conversationID        int64 // 0 until the first exchange completes
	turns                 []Turn
	sending               bool
	onConversationCreated func(id int64)
}

func NewChat(api client.ChatAPI) *Chat {
	return &Chat{
		api: api,
		turns: []Turn{
			{ID: welcomeTurnID, Role: models.RoleAssistant, Content: welcomeText},
		},
	}
}

// OnConversationCreated registers a callback fired once, when the server
// assigns the conversation its id.
func (c *Chat) OnConversationCreated(fn func(id int64)) {
	c.onConversationCreated = fn
}

// LoadHistory replaces the turn list wholesale with an existing
// conversation's messages, in server order.
func (c *Chat) LoadHistory(conversationID int64) error {
	messages, err := c.api.GetMessages(conversationID)
	if err != nil {
		return err
	}
	turns := make([]Turn, len(messages))
	for i, m := range messages {
		turns[i] = Turn{
			ID:      strconv.FormatInt(m.ID, 10),
			Role:    m.Role,
			Content: m.Content,
		}
	}
	c.turns = turns
	c.conversationID = conversationID
	return nil
}

// Send submits one user message. Blank text and calls made while a send is
// already in flight are no-ops. On failure the user turn stays in place; only
// the placeholder is removed.
func (c *Chat) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" || c.sending {
		return nil
	}

	c.sending = true
	defer func() { c.sending = false }()

	c.turns = append(c.turns,
		Turn{ID: "local-" + uuid.NewString(), Role: models.RoleUser, Content: text},
		Turn{ID: pendingTurnID, Role: models.RoleAssistant, Pending: true},
	)

	resp, err := c.api.SendMessage(text, c.conversationID)
	if err != nil {
		c.removePending()
		return err
	}

	if c.conversationID == 0 {
		c.conversationID = resp.ConversationID
		if c.onConversationCreated != nil {
			c.onConversationCreated(resp.ConversationID)
		}
	}

	c.removePending()
	c.turns = append(c.turns, Turn{
		ID:      strconv.FormatInt(resp.MessageID, 10),
		Role:    models.RoleAssistant,
		Content: resp.Response,
	})
	return nil
}

func (c *Chat) removePending() {
	kept := c.turns[:0]
	for _, t := range c.turns {
		if t.ID != pendingTurnID {
			kept = append(kept, t)
		}
	}
	c.turns = kept
}

func (c *Chat) Turns() []Turn {
	return c.turns
}

// ConversationID is 0 until the first exchange completes, then fixed for the
// session.
func (c *Chat) ConversationID() int64 {
	return c.conversationID
}

func (c *Chat) Sending() bool {
	return c.sending
}
