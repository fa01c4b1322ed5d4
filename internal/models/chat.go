package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation identity is server-assigned on the first exchange.
type Conversation struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	LastMessage  *string   `json:"last_message"`
}

type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversation_id"`
}

type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID int64  `json:"conversation_id"`
	MessageID      int64  `json:"message_id"`
}
