package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
)

const taskColumns = `id, user_id, title, description, priority, completed,
	due_date, reminder_at, reminded, recurrence_rule, parent_task_id,
	created_at, updated_at`

// sortColumns whitelists the sort keys the list endpoint accepts.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"title":      "title",
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Completed,
		&t.DueDate,
		&t.ReminderAt,
		&t.Reminded,
		&t.RecurrenceRule,
		&t.ParentTaskID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(userID string, data models.TaskCreate) (*models.Task, error) {
	priority := data.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := time.Now().UTC()

	result, err := r.db.Exec(`
		INSERT INTO tasks (user_id, title, description, priority, due_date, reminder_at, recurrence_rule, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, data.Title, data.Description, string(priority),
		data.DueDate, data.ReminderAt, data.RecurrenceRule, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("task id: %w", err)
	}
	return r.GetByID(userID, id)
}

// CreateOccurrence inserts a regenerated recurring task, linked to its parent.
func (r *TaskRepository) CreateOccurrence(task models.Task) (*models.Task, error) {
	now := time.Now().UTC()
	result, err := r.db.Exec(`
		INSERT INTO tasks (user_id, title, description, priority, due_date, reminder_at, recurrence_rule, parent_task_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.UserID, task.Title, task.Description, string(task.Priority),
		task.DueDate, task.ReminderAt, task.RecurrenceRule, task.ParentTaskID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert occurrence: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("occurrence id: %w", err)
	}
	return r.GetByID(task.UserID, id)
}

func (r *TaskRepository) GetByID(userID string, taskID int64) (*models.Task, error) {
	row := r.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
		taskID, userID,
	)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) List(userID string, filters models.TaskFilters) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	switch filters.Status {
	case "completed":
		query += ` AND completed = 1`
	case "incomplete":
		query += ` AND completed = 0`
	}

	if filters.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filters.Priority))
	}

	if filters.Tag != "" {
		query += ` AND id IN (
			SELECT task_id FROM task_tags
			JOIN tags ON tags.id = task_tags.tag_id
			WHERE tags.name = ? AND tags.user_id = ?)`
		args = append(args, filters.Tag, userID)
	}

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query += ` AND (title LIKE ? OR description LIKE ?)`
		args = append(args, pattern, pattern)
	}

	if filters.Overdue {
		query += ` AND due_date < ? AND completed = 0`
		args = append(args, time.Now().UTC())
	}

	sortCol, ok := sortColumns[filters.Sort]
	if !ok {
		sortCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filters.Order, "asc") {
		direction = "ASC"
	}
	query += ` ORDER BY ` + sortCol + ` ` + direction

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(userID string, taskID int64, data models.TaskUpdate) (*models.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if data.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *data.Title)
	}
	if data.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *data.Description)
	}
	if data.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*data.Priority))
	}
	if data.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *data.DueDate)
	}
	if data.ReminderAt != nil {
		sets = append(sets, "reminder_at = ?")
		args = append(args, *data.ReminderAt)
	}
	if data.RecurrenceRule != nil {
		sets = append(sets, "recurrence_rule = ?")
		args = append(args, *data.RecurrenceRule)
	}

	args = append(args, taskID, userID)
	result, err := r.db.Exec(
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(userID, taskID)
}

func (r *TaskRepository) Delete(userID string, taskID int64) error {
	if _, err := r.db.Exec(
		`DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE id = ? AND user_id = ?)`,
		taskID, userID,
	); err != nil {
		return fmt.Errorf("delete task tags: %w", err)
	}

	result, err := r.db.Exec(`DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) ToggleComplete(userID string, taskID int64) (*models.Task, error) {
	result, err := r.db.Exec(
		`UPDATE tasks SET completed = 1 - completed, updated_at = ? WHERE id = ? AND user_id = ?`,
		time.Now().UTC(), taskID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(userID, taskID)
}

// NeedingReminder returns incomplete tasks whose reminder time has passed and
// that have not been reminded yet.
func (r *TaskRepository) NeedingReminder(now time.Time) ([]models.Task, error) {
	rows, err := r.db.Query(
		`SELECT `+taskColumns+` FROM tasks
		 WHERE reminder_at IS NOT NULL AND reminder_at <= ? AND reminded = 0 AND completed = 0`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) MarkReminded(taskID int64) error {
	_, err := r.db.Exec(`UPDATE tasks SET reminded = 1 WHERE id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}
