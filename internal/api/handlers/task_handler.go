package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
	"github.com/yasmin191/hackathon-todo-evolution/internal/service"
)

// Cross-user access is reported as a plain not-found so task ids cannot be
// probed across accounts.
const notFoundMessage = "Resource not found"

type TaskHandler struct {
	tasks *repository.TaskRepository
	tags  *repository.TagRepository
}

func NewTaskHandler(tasks *repository.TaskRepository, tags *repository.TagRepository) *TaskHandler {
	return &TaskHandler{tasks: tasks, tags: tags}
}

// ownPath ensures the authenticated user only reaches their own collection.
func ownPath(w http.ResponseWriter, r *http.Request, user AuthUser) bool {
	if r.PathValue("userId") != user.UserID {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}

	query := r.URL.Query()
	filters := models.TaskFilters{
		Status:   query.Get("status"),
		Priority: models.Priority(query.Get("priority")),
		Tag:      query.Get("tag"),
		Search:   query.Get("search"),
		Overdue:  query.Get("overdue") == "true",
		Sort:     query.Get("sort"),
		Order:    query.Get("order"),
	}

	tasks, err := h.tasks.List(user.UserID, filters)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tasks")
		writeError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	if err := h.loadTags(tasks); err != nil {
		log.Error().Err(err).Msg("failed to load task tags")
		writeError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) loadTags(tasks []models.Task) error {
	for i := range tasks {
		tags, err := h.tags.ListForTask(tasks[i].ID)
		if err != nil {
			return err
		}
		tasks[i].Tags = tags
	}
	return nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}

	var data models.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	data.Title = strings.TrimSpace(data.Title)
	if data.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if len(data.Title) > models.MaxTitleLength {
		writeError(w, http.StatusBadRequest, "Title is too long")
		return
	}
	if data.Priority != "" && !data.Priority.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid priority")
		return
	}
	if data.RecurrenceRule != "" && service.ParseRecurrenceRule(data.RecurrenceRule) == nil {
		writeError(w, http.StatusBadRequest, "Invalid recurrence rule")
		return
	}

	task, err := h.tasks.Create(user.UserID, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to create task")
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	task.Tags = []models.Tag{}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := h.tasks.GetByID(user.UserID, taskID)
	if err != nil {
		h.repoError(w, err, "failed to get task")
		return
	}
	tags, err := h.tags.ListForTask(task.ID)
	if err != nil {
		h.repoError(w, err, "failed to get task")
		return
	}
	task.Tags = tags
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var data models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if data.Title != nil {
		trimmed := strings.TrimSpace(*data.Title)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, "Title is required")
			return
		}
		if len(trimmed) > models.MaxTitleLength {
			writeError(w, http.StatusBadRequest, "Title is too long")
			return
		}
		data.Title = &trimmed
	}
	if data.Priority != nil && !data.Priority.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid priority")
		return
	}
	if data.RecurrenceRule != nil && *data.RecurrenceRule != "" &&
		service.ParseRecurrenceRule(*data.RecurrenceRule) == nil {
		writeError(w, http.StatusBadRequest, "Invalid recurrence rule")
		return
	}

	task, err := h.tasks.Update(user.UserID, taskID, data)
	if err != nil {
		h.repoError(w, err, "failed to update task")
		return
	}
	task.Tags, err = h.tags.ListForTask(task.ID)
	if err != nil {
		h.repoError(w, err, "failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := h.tasks.Delete(user.UserID, taskID); err != nil {
		h.repoError(w, err, "failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := h.tasks.ToggleComplete(user.UserID, taskID)
	if err != nil {
		h.repoError(w, err, "failed to toggle task")
		return
	}

	// Completing a recurring task spawns the next occurrence. A failure here
	// does not fail the toggle itself.
	if task.Completed && task.RecurrenceRule != "" {
		if _, err := service.CreateNextOccurrence(h.tasks, *task); err != nil {
			log.Error().Err(err).Int64("taskID", task.ID).Msg("failed to create next occurrence")
		}
	}

	task.Tags, err = h.tags.ListForTask(task.ID)
	if err != nil {
		h.repoError(w, err, "failed to toggle task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type attachTagsRequest struct {
	TagIDs []int64 `json:"tag_ids"`
}

func (h *TaskHandler) AttachTags(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req attachTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.tasks.GetByID(user.UserID, taskID)
	if err != nil {
		h.repoError(w, err, "failed to attach tags")
		return
	}
	for _, tagID := range req.TagIDs {
		if _, err := h.tags.GetByID(user.UserID, tagID); err != nil {
			h.repoError(w, err, "failed to attach tags")
			return
		}
	}
	if err := h.tags.Attach(taskID, req.TagIDs); err != nil {
		h.repoError(w, err, "failed to attach tags")
		return
	}

	task.Tags, err = h.tags.ListForTask(taskID)
	if err != nil {
		h.repoError(w, err, "failed to attach tags")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DetachTag(w http.ResponseWriter, r *http.Request, user AuthUser) {
	if !ownPath(w, r, user) {
		return
	}
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	tagID, err := pathID(r, "tagId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tag id")
		return
	}

	if _, err := h.tasks.GetByID(user.UserID, taskID); err != nil {
		h.repoError(w, err, "failed to detach tag")
		return
	}
	if err := h.tags.Detach(taskID, tagID); err != nil {
		h.repoError(w, err, "failed to detach tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) repoError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundMessage)
		return
	}
	log.Error().Err(err).Msg(logMsg)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
