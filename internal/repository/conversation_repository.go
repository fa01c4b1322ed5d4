package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
)

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(userID string) (*models.Conversation, error) {
	now := time.Now().UTC()
	result, err := r.db.Exec(
		`INSERT INTO conversations (user_id, created_at, updated_at) VALUES (?, ?, ?)`,
		userID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("conversation id: %w", err)
	}
	return &models.Conversation{ID: id, UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
}

func (r *ConversationRepository) Get(userID string, conversationID int64) (*models.Conversation, error) {
	var c models.Conversation
	err := r.db.QueryRow(
		`SELECT id, user_id, created_at, updated_at FROM conversations WHERE id = ? AND user_id = ?`,
		conversationID, userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &c, nil
}

// GetOrCreate resolves the conversation for a chat exchange: id 0 or an id
// the user does not own starts a new conversation.
func (r *ConversationRepository) GetOrCreate(userID string, conversationID int64) (*models.Conversation, error) {
	if conversationID != 0 {
		conversation, err := r.Get(userID, conversationID)
		if err == nil {
			return conversation, nil
		}
		if err != ErrNotFound {
			return nil, err
		}
	}
	return r.Create(userID)
}

// List returns the user's conversations, most recently active first, with the
// derived message count and last message text.
func (r *ConversationRepository) List(userID string) ([]models.Conversation, error) {
	rows, err := r.db.Query(
		`SELECT c.id, c.user_id, c.created_at, c.updated_at,
		        (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id),
		        (SELECT m.content FROM messages m WHERE m.conversation_id = c.id ORDER BY m.id DESC LIMIT 1)
		 FROM conversations c WHERE c.user_id = ? ORDER BY c.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt, &c.MessageCount, &c.LastMessage); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// AddMessage appends a message and touches the conversation's updated_at.
func (r *ConversationRepository) AddMessage(conversationID int64, role models.Role, content string) (*models.Message, error) {
	now := time.Now().UTC()
	result, err := r.db.Exec(
		`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, string(role), content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	if _, err := r.db.Exec(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		now, conversationID,
	); err != nil {
		return nil, fmt.Errorf("touch conversation: %w", err)
	}

	return &models.Message{
		ID:             id,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}, nil
}

func (r *ConversationRepository) Messages(conversationID int64) ([]models.Message, error) {
	rows, err := r.db.Query(
		`SELECT id, conversation_id, role, content, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY id`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
