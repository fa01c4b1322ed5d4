package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
)

type TagHandler struct {
	tags *repository.TagRepository
}

func NewTagHandler(tags *repository.TagRepository) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	tags, err := h.tags.List(user.UserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tags")
		writeError(w, http.StatusInternalServerError, "Failed to list tags")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	var data models.TagCreate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		writeError(w, http.StatusBadRequest, "Tag name is required")
		return
	}

	tag, err := h.tags.Create(user.UserID, data)
	if err != nil {
		h.repoError(w, err, "failed to create tag")
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	tagID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tag id")
		return
	}

	var data models.TagUpdate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if data.Name != nil {
		trimmed := strings.TrimSpace(*data.Name)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, "Tag name is required")
			return
		}
		data.Name = &trimmed
	}

	tag, err := h.tags.Update(user.UserID, tagID, data)
	if err != nil {
		h.repoError(w, err, "failed to update tag")
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	tagID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tag id")
		return
	}

	if err := h.tags.Delete(user.UserID, tagID); err != nil {
		h.repoError(w, err, "failed to delete tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TagHandler) repoError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, repository.ErrDuplicateTag):
		writeError(w, http.StatusBadRequest, "Tag already exists")
	default:
		log.Error().Err(err).Msg(logMsg)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
