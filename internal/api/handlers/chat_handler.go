package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
	"github.com/yasmin191/hackathon-todo-evolution/internal/service"
)

const lastMessagePreviewLen = 100

type ChatHandler struct {
	conversations *repository.ConversationRepository
	assistant     *service.Assistant
}

func NewChatHandler(conversations *repository.ConversationRepository, assistant *service.Assistant) *ChatHandler {
	return &ChatHandler{conversations: conversations, assistant: assistant}
}

// Chat records the user message, produces the assistant's reply and records
// it too. A missing or foreign conversation id starts a fresh conversation.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request, user AuthUser) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	var conversationID int64
	if req.ConversationID != nil {
		conversationID = *req.ConversationID
	}
	conversation, err := h.conversations.GetOrCreate(user.UserID, conversationID)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve conversation")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if _, err := h.conversations.AddMessage(conversation.ID, models.RoleUser, req.Message); err != nil {
		log.Error().Err(err).Msg("failed to store user message")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	reply, err := h.assistant.Reply(user.UserID, req.Message)
	if err != nil {
		log.Error().Err(err).Msg("assistant failed")
		apology := "Sorry, something went wrong while handling that. Please try again."
		h.conversations.AddMessage(conversation.ID, models.RoleAssistant, apology)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	message, err := h.conversations.AddMessage(conversation.ID, models.RoleAssistant, reply)
	if err != nil {
		log.Error().Err(err).Msg("failed to store assistant message")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Response:       reply,
		ConversationID: conversation.ID,
		MessageID:      message.ID,
	})
}

func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request, user AuthUser) {
	conversations, err := h.conversations.List(user.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list conversations")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for i := range conversations {
		conversations[i].LastMessage = truncate(conversations[i].LastMessage)
	}
	writeJSON(w, http.StatusOK, conversations)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request, user AuthUser) {
	conversationID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid conversation id")
		return
	}

	if _, err := h.conversations.Get(user.UserID, conversationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, notFoundMessage)
			return
		}
		log.Error().Err(err).Msg("failed to load conversation")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	messages, err := h.conversations.Messages(conversationID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load messages")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func truncate(message *string) *string {
	if message == nil {
		return nil
	}
	runes := []rune(*message)
	if len(runes) <= lastMessagePreviewLen {
		return message
	}
	short := string(runes[:lastMessagePreviewLen])
	return &short
}
