package models

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// MaxTitleLength is the longest title the backend accepts.
const MaxTitleLength = 500

// Task ids are always server-assigned; the client treats them as opaque.
type Task struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Priority       Priority   `json:"priority"`
	Completed      bool       `json:"completed"`
	DueDate        *time.Time `json:"due_date"`
	ReminderAt     *time.Time `json:"reminder_at"`
	Reminded       bool       `json:"-"`
	RecurrenceRule string     `json:"recurrence_rule,omitempty"`
	ParentTaskID   *int64     `json:"parent_task_id,omitempty"`
	Tags           []Tag      `json:"tags"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type TaskCreate struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Priority       Priority   `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	ReminderAt     *time.Time `json:"reminder_at,omitempty"`
	RecurrenceRule string     `json:"recurrence_rule,omitempty"`
}

// TaskUpdate carries only the fields being changed; nil means "leave as is".
type TaskUpdate struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Priority       *Priority  `json:"priority,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	ReminderAt     *time.Time `json:"reminder_at,omitempty"`
	RecurrenceRule *string    `json:"recurrence_rule,omitempty"`
}

// DueDatePhrase renders a due date the way the task list displays it.
func DueDatePhrase(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case day.Before(today):
		return fmt.Sprintf("overdue (%s)", due.Format("2006-01-02"))
	case day.Equal(today):
		return "due today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "due tomorrow"
	default:
		return "due " + due.Format("2006-01-02")
	}
}
