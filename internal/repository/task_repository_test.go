package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
)

func newTestDB(t *testing.T) *TaskRepository {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskRepository(db)
}

func TestTaskCreateDefaults(t *testing.T) {
	repo := newTestDB(t)

	task, err := repo.Create("user_a", models.TaskCreate{Title: "plain task"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Priority != models.PriorityMedium {
		t.Fatalf("priority = %q, want medium", task.Priority)
	}
	if task.Completed || task.Reminded {
		t.Fatalf("fresh task flags: %+v", task)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", task)
	}
}

func TestTaskGetScopedToUser(t *testing.T) {
	repo := newTestDB(t)
	task, err := repo.Create("user_a", models.TaskCreate{Title: "mine"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.GetByID("user_b", task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user get: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID("user_a", 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestTaskListFilters(t *testing.T) {
	repo := newTestDB(t)

	past := time.Now().UTC().Add(-24 * time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)
	desc := "quarterly numbers"

	report, err := repo.Create("user_a", models.TaskCreate{
		Title: "write report", Description: &desc, Priority: models.PriorityHigh, DueDate: &past,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	groceries, err := repo.Create("user_a", models.TaskCreate{
		Title: "buy groceries", DueDate: &future,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.ToggleComplete("user_a", groceries.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	completed, err := repo.List("user_a", models.TaskFilters{Status: "completed"})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != groceries.ID {
		t.Fatalf("completed = %+v", completed)
	}

	high, err := repo.List("user_a", models.TaskFilters{Priority: models.PriorityHigh})
	if err != nil {
		t.Fatalf("list high: %v", err)
	}
	if len(high) != 1 || high[0].ID != report.ID {
		t.Fatalf("high = %+v", high)
	}

	found, err := repo.List("user_a", models.TaskFilters{Search: "quarterly"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != report.ID {
		t.Fatalf("search hit = %+v", found)
	}

	overdue, err := repo.List("user_a", models.TaskFilters{Overdue: true})
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != report.ID {
		t.Fatalf("overdue = %+v", overdue)
	}
}

func TestTaskListSortWhitelist(t *testing.T) {
	repo := newTestDB(t)
	if _, err := repo.Create("user_a", models.TaskCreate{Title: "banana"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create("user_a", models.TaskCreate{Title: "apple"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	byTitle, err := repo.List("user_a", models.TaskFilters{Sort: "title", Order: "asc"})
	if err != nil {
		t.Fatalf("sort by title: %v", err)
	}
	if byTitle[0].Title != "apple" || byTitle[1].Title != "banana" {
		t.Fatalf("sorted = %+v", byTitle)
	}

	// An unknown sort column must not be interpolated into SQL.
	if _, err := repo.List("user_a", models.TaskFilters{Sort: "id; DROP TABLE tasks"}); err != nil {
		t.Fatalf("bogus sort column: %v", err)
	}
	if _, err := repo.List("user_a", models.TaskFilters{}); err != nil {
		t.Fatalf("tasks table gone: %v", err)
	}
}

func TestTaskUpdatePartial(t *testing.T) {
	repo := newTestDB(t)
	task, err := repo.Create("user_a", models.TaskCreate{Title: "original", Priority: models.PriorityLow})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "renamed"
	updated, err := repo.Update("user_a", task.ID, models.TaskUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "renamed" || updated.Priority != models.PriorityLow {
		t.Fatalf("partial update touched other fields: %+v", updated)
	}

	if _, err := repo.Update("user_a", 999, models.TaskUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: err = %v", err)
	}
}

func TestTaskDelete(t *testing.T) {
	repo := newTestDB(t)
	task, err := repo.Create("user_a", models.TaskCreate{Title: "doomed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete("user_a", task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete("user_a", task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
	if err := repo.Delete("user_b", task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user delete: err = %v", err)
	}
}

func TestTaskToggleCompleteRoundTrip(t *testing.T) {
	repo := newTestDB(t)
	task, err := repo.Create("user_a", models.TaskCreate{Title: "flip me"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	on, err := repo.ToggleComplete("user_a", task.ID)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !on.Completed {
		t.Fatal("not completed after toggle")
	}

	off, err := repo.ToggleComplete("user_a", task.ID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if off.Completed {
		t.Fatal("still completed after second toggle")
	}
}

func TestNeedingReminderSweep(t *testing.T) {
	repo := newTestDB(t)
	now := time.Now().UTC()

	pastReminder := now.Add(-time.Hour)
	futureReminder := now.Add(time.Hour)
	due, err := repo.Create("user_a", models.TaskCreate{Title: "due now", ReminderAt: &pastReminder})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create("user_a", models.TaskCreate{Title: "later", ReminderAt: &futureReminder}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create("user_a", models.TaskCreate{Title: "no reminder"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	pending, err := repo.NeedingReminder(now)
	if err != nil {
		t.Fatalf("needing reminder: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != due.ID {
		t.Fatalf("pending = %+v", pending)
	}

	if err := repo.MarkReminded(due.ID); err != nil {
		t.Fatalf("mark reminded: %v", err)
	}
	pending, err = repo.NeedingReminder(now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("reminded task came back: %+v", pending)
	}
}
