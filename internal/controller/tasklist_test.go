package controller

import (
	"errors"
	"strings"
	"testing"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/session"
)

type mockTaskAPI struct {
	getTasks       func(userID string, filters *models.TaskFilters) ([]models.Task, error)
	createTask     func(userID string, data models.TaskCreate) (*models.Task, error)
	getTask        func(userID string, taskID int64) (*models.Task, error)
	updateTask     func(userID string, taskID int64, data models.TaskUpdate) (*models.Task, error)
	deleteTask     func(userID string, taskID int64) error
	toggleComplete func(userID string, taskID int64) (*models.Task, error)
}

func (m *mockTaskAPI) GetTasks(userID string, filters *models.TaskFilters) ([]models.Task, error) {
	return m.getTasks(userID, filters)
}
func (m *mockTaskAPI) CreateTask(userID string, data models.TaskCreate) (*models.Task, error) {
	return m.createTask(userID, data)
}
func (m *mockTaskAPI) GetTask(userID string, taskID int64) (*models.Task, error) {
	return m.getTask(userID, taskID)
}
func (m *mockTaskAPI) UpdateTask(userID string, taskID int64, data models.TaskUpdate) (*models.Task, error) {
	return m.updateTask(userID, taskID, data)
}
func (m *mockTaskAPI) DeleteTask(userID string, taskID int64) error {
	return m.deleteTask(userID, taskID)
}
func (m *mockTaskAPI) ToggleComplete(userID string, taskID int64) (*models.Task, error) {
	return m.toggleComplete(userID, taskID)
}

type noopTokenSetter struct{}

func (noopTokenSetter) SetToken(string) {}

func loggedInStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(session.NewMemoryStorage(), noopTokenSetter{})
	err := store.Save(models.AuthSession{
		User:  models.User{ID: "user_alice_example_com", Email: "alice@example.com"},
		Token: "token-1",
	})
	if err != nil {
		t.Fatalf("save session: %v", err)
	}
	return store
}

func TestTaskListLoadReplacesWholesale(t *testing.T) {
	batches := [][]models.Task{
		{{ID: 1, Title: "first"}, {ID: 2, Title: "second"}},
		{{ID: 2, Title: "second"}},
	}
	calls := 0
	api := &mockTaskAPI{
		getTasks: func(userID string, _ *models.TaskFilters) ([]models.Task, error) {
			if userID != "user_alice_example_com" {
				t.Fatalf("unexpected user id %q", userID)
			}
			batch := batches[calls]
			calls++
			return batch, nil
		},
	}
	list := NewTaskList(api, loggedInStore(t))

	if list.State() != StateIdle {
		t.Fatalf("state = %q, want idle", list.State())
	}
	if err := list.Load(); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if len(list.Tasks()) != 2 || list.State() != StateReady {
		t.Fatalf("after first load: %d tasks, state %q", len(list.Tasks()), list.State())
	}

	if err := list.Load(); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(list.Tasks()) != 1 || list.Tasks()[0].ID != 2 {
		t.Fatalf("second load did not replace the list: %+v", list.Tasks())
	}
}

func TestTaskListLoadFailureKeepsError(t *testing.T) {
	api := &mockTaskAPI{
		getTasks: func(string, *models.TaskFilters) ([]models.Task, error) {
			return nil, errors.New("backend down")
		},
	}
	list := NewTaskList(api, loggedInStore(t))

	if err := list.Load(); err == nil {
		t.Fatal("expected load error")
	}
	if list.State() != StateError {
		t.Fatalf("state = %q, want error", list.State())
	}
	if list.LoadError() != "backend down" {
		t.Fatalf("load error = %q", list.LoadError())
	}
}

func TestTaskListCreateAppends(t *testing.T) {
	api := &mockTaskAPI{
		createTask: func(_ string, data models.TaskCreate) (*models.Task, error) {
			if data.Title != "buy milk" {
				t.Fatalf("title not trimmed: %q", data.Title)
			}
			return &models.Task{ID: 7, Title: data.Title}, nil
		},
	}
	list := NewTaskList(api, loggedInStore(t))

	task, err := list.Create(models.TaskCreate{Title: "  buy milk  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID != 7 {
		t.Fatalf("task id = %d", task.ID)
	}
	if len(list.Tasks()) != 1 || list.Tasks()[0].ID != 7 {
		t.Fatalf("task not appended: %+v", list.Tasks())
	}
}

func TestTaskListCreateValidation(t *testing.T) {
	api := &mockTaskAPI{
		createTask: func(string, models.TaskCreate) (*models.Task, error) {
			t.Fatal("request should not be sent")
			return nil, nil
		},
	}
	list := NewTaskList(api, loggedInStore(t))

	if _, err := list.Create(models.TaskCreate{Title: "   "}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("blank title: err = %v", err)
	}
	long := strings.Repeat("x", models.MaxTitleLength+1)
	if _, err := list.Create(models.TaskCreate{Title: long}); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("long title: err = %v", err)
	}
	if len(list.Tasks()) != 0 {
		t.Fatalf("list changed on validation failure: %+v", list.Tasks())
	}
}

func TestTaskListCreateFailureLeavesListUnchanged(t *testing.T) {
	api := &mockTaskAPI{
		createTask: func(string, models.TaskCreate) (*models.Task, error) {
			return nil, errors.New("boom")
		},
	}
	list := NewTaskList(api, loggedInStore(t))

	if _, err := list.Create(models.TaskCreate{Title: "doomed"}); err == nil {
		t.Fatal("expected error")
	}
	if len(list.Tasks()) != 0 {
		t.Fatalf("list changed after failed create: %+v", list.Tasks())
	}
}

func TestTaskListUpdateInPlace(t *testing.T) {
	api := &mockTaskAPI{
		getTasks: func(string, *models.TaskFilters) ([]models.Task, error) {
			return []models.Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil
		},
		updateTask: func(_ string, taskID int64, data models.TaskUpdate) (*models.Task, error) {
			return &models.Task{ID: taskID, Title: *data.Title}, nil
		},
	}
	list := NewTaskList(api, loggedInStore(t))
	if err := list.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	title := "b renamed"
	if _, err := list.Update(2, models.TaskUpdate{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}
	tasks := list.Tasks()
	if tasks[0].Title != "a" || tasks[1].Title != "b renamed" {
		t.Fatalf("unexpected tasks after update: %+v", tasks)
	}

	// Updating a task no longer in the local list is tolerated silently.
	if _, err := list.Update(99, models.TaskUpdate{Title: &title}); err != nil {
		t.Fatalf("update missing id: %v", err)
	}
	if len(list.Tasks()) != 2 {
		t.Fatalf("missing-id update changed the list: %+v", list.Tasks())
	}
}

func TestTaskListToggleKeepsServerCopy(t *testing.T) {
	completed := false
	api := &mockTaskAPI{
		getTasks: func(string, *models.TaskFilters) ([]models.Task, error) {
			return []models.Task{{ID: 1, Title: "a"}}, nil
		},
		toggleComplete: func(_ string, taskID int64) (*models.Task, error) {
			completed = !completed
			return &models.Task{ID: taskID, Title: "a", Completed: completed}, nil
		},
	}
	list := NewTaskList(api, loggedInStore(t))
	if err := list.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := list.ToggleComplete(1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !list.Tasks()[0].Completed {
		t.Fatal("task not completed after toggle")
	}
	if list.PendingCount() != 0 || list.CompletedCount() != 1 {
		t.Fatalf("counts = %d pending, %d completed", list.PendingCount(), list.CompletedCount())
	}

	if _, err := list.ToggleComplete(1); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if list.Tasks()[0].Completed {
		t.Fatal("double toggle did not restore the task")
	}
}

func TestTaskListDelete(t *testing.T) {
	deleted := []int64{}
	api := &mockTaskAPI{
		getTasks: func(string, *models.TaskFilters) ([]models.Task, error) {
			return []models.Task{{ID: 1}, {ID: 2}, {ID: 3}}, nil
		},
		deleteTask: func(_ string, taskID int64) error {
			deleted = append(deleted, taskID)
			return nil
		},
	}
	list := NewTaskList(api, loggedInStore(t))
	if err := list.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := list.Delete(2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(list.Tasks()) != 2 || list.Tasks()[0].ID != 1 || list.Tasks()[1].ID != 3 {
		t.Fatalf("unexpected tasks after delete: %+v", list.Tasks())
	}

	// Absent id: no-op, no network call.
	if err := list.Delete(42); err != nil {
		t.Fatalf("delete absent id: %v", err)
	}
	if len(deleted) != 1 {
		t.Fatalf("delete calls = %v, want just [2]", deleted)
	}
}

func TestTaskListRequiresSession(t *testing.T) {
	api := &mockTaskAPI{}
	store := session.NewStore(session.NewMemoryStorage(), noopTokenSetter{})
	list := NewTaskList(api, store)

	if err := list.Load(); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("load: err = %v", err)
	}
	if _, err := list.Create(models.TaskCreate{Title: "x"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("create: err = %v", err)
	}
	if err := list.Delete(1); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("delete: err = %v", err)
	}
}
