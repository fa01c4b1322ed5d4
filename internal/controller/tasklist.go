// Package controller holds the client-side state controllers: the task list
// with its apply-on-success mutations and the chat conversation loop. The
// controllers are not safe for concurrent use; the caller serializes
// operations (one mutation in flight at a time), and the outcome of
// overlapping calls is unspecified.
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yasmin191/hackathon-todo-evolution/internal/client"
	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/session"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyTitle       = errors.New("task title must not be empty")
	ErrTitleTooLong     = fmt.Errorf("task title exceeds %d characters", models.MaxTitleLength)
)

// TaskList owns the in-memory task list for the signed-in user. Mutations are
// request-then-apply: nothing changes locally until the server confirms, so a
// failed call leaves the list exactly as it was and nothing ever rolls back.
type TaskList struct {
	api     client.TaskAPI
	session *session.Store

	state   State
	tasks   []models.Task
	loadErr string
}

func NewTaskList(api client.TaskAPI, sess *session.Store) *TaskList {
	return &TaskList{api: api, session: sess, state: StateIdle}
}

// Load fetches the full task list and replaces the local copy wholesale, so
// calling it repeatedly is safe.
func (l *TaskList) Load() error {
	sess := l.session.Current()
	if sess == nil {
		return ErrNotAuthenticated
	}
	l.state = StateLoading
	tasks, err := l.api.GetTasks(sess.User.ID, nil)
	if err != nil {
		l.state = StateError
		l.loadErr = err.Error()
		return err
	}
	l.tasks = tasks
	l.state = StateReady
	l.loadErr = ""
	return nil
}

// Create validates locally, then appends the server-returned task. Server
// ordering is not reproduced here; new tasks go to the end.
func (l *TaskList) Create(data models.TaskCreate) (*models.Task, error) {
	sess := l.session.Current()
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	data.Title = strings.TrimSpace(data.Title)
	if data.Title == "" {
		return nil, ErrEmptyTitle
	}
	if len(data.Title) > models.MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	created, err := l.api.CreateTask(sess.User.ID, data)
	if err != nil {
		return nil, err
	}
	l.tasks = append(l.tasks, *created)
	return created, nil
}

// Update replaces the matching task in place. A task deleted elsewhere while
// it was being edited is tolerated silently.
func (l *TaskList) Update(taskID int64, data models.TaskUpdate) (*models.Task, error) {
	sess := l.session.Current()
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	if data.Title != nil {
		trimmed := strings.TrimSpace(*data.Title)
		if trimmed == "" {
			return nil, ErrEmptyTitle
		}
		if len(trimmed) > models.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		data.Title = &trimmed
	}
	updated, err := l.api.UpdateTask(sess.User.ID, taskID, data)
	if err != nil {
		return nil, err
	}
	l.replace(*updated)
	return updated, nil
}

// ToggleComplete uses the dedicated endpoint and keeps the server's returned
// task, so server-side effects like recurrence regeneration are reflected
// rather than guessed locally.
func (l *TaskList) ToggleComplete(taskID int64) (*models.Task, error) {
	sess := l.session.Current()
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	updated, err := l.api.ToggleComplete(sess.User.ID, taskID)
	if err != nil {
		return nil, err
	}
	l.replace(*updated)
	return updated, nil
}

// Delete removes the task by id. An id absent from the local list is a no-op
// without a network call.
func (l *TaskList) Delete(taskID int64) error {
	sess := l.session.Current()
	if sess == nil {
		return ErrNotAuthenticated
	}
	idx := l.indexOf(taskID)
	if idx < 0 {
		return nil
	}
	if err := l.api.DeleteTask(sess.User.ID, taskID); err != nil {
		return err
	}
	l.tasks = append(l.tasks[:idx], l.tasks[idx+1:]...)
	return nil
}

func (l *TaskList) replace(task models.Task) {
	if idx := l.indexOf(task.ID); idx >= 0 {
		l.tasks[idx] = task
	}
}

func (l *TaskList) indexOf(taskID int64) int {
	for i := range l.tasks {
		if l.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

func (l *TaskList) Tasks() []models.Task {
	return l.tasks
}

func (l *TaskList) State() State {
	return l.state
}

// LoadError is the message shown when the list is in the error state.
func (l *TaskList) LoadError() string {
	return l.loadErr
}

// PendingCount is recomputed on every call, never cached.
func (l *TaskList) PendingCount() int {
	count := 0
	for i := range l.tasks {
		if !l.tasks[i].Completed {
			count++
		}
	}
	return count
}

func (l *TaskList) CompletedCount() int {
	count := 0
	for i := range l.tasks {
		if l.tasks[i].Completed {
			count++
		}
	}
	return count
}
