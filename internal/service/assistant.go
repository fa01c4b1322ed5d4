package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
)

const assistantHelp = `I can help you manage your tasks. Try:
- "show my tasks" to list what's pending
- "add a task to buy groceries" to create a task
- "complete task 3" to mark a task done
- "delete task 5" to remove a task`

var taskIDPattern = regexp.MustCompile(`task\s+(\d+)`)

// Assistant answers chat messages by operating on the user's tasks.
type Assistant struct {
	tasks *repository.TaskRepository
	tags  *repository.TagRepository
}

func NewAssistant(tasks *repository.TaskRepository, tags *repository.TagRepository) *Assistant {
	return &Assistant{tasks: tasks, tags: tags}
}

// Reply interprets a message and returns the assistant's answer.
func (a *Assistant) Reply(userID, message string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(message))

	switch {
	case strings.Contains(lower, "show") || strings.Contains(lower, "list") ||
		strings.Contains(lower, "what do i need"):
		return a.listTasks(userID)

	case strings.Contains(lower, "complete") || strings.Contains(lower, "mark"):
		return a.completeTask(userID, lower)

	case strings.Contains(lower, "delete") || strings.Contains(lower, "remove"):
		return a.deleteTask(userID, lower)

	case strings.Contains(lower, "add") || strings.Contains(lower, "create"):
		return a.createTask(userID, message)
	}

	return assistantHelp, nil
}

func (a *Assistant) listTasks(userID string) (string, error) {
	tasks, err := a.tasks.List(userID, models.TaskFilters{})
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}
	if len(tasks) == 0 {
		return "You have no tasks yet. Try adding one!", nil
	}

	lines := make([]string, 0, len(tasks)+1)
	lines = append(lines, "Here are your tasks:")
	for _, task := range tasks {
		lines = append(lines, formatTask(task))
	}
	return strings.Join(lines, "\n"), nil
}

func (a *Assistant) completeTask(userID, lower string) (string, error) {
	taskID, ok := extractTaskID(lower)
	if !ok {
		return `Which task? Say something like "complete task 3".`, nil
	}
	task, err := a.tasks.ToggleComplete(userID, taskID)
	if err != nil {
		if err == repository.ErrNotFound {
			return fmt.Sprintf("I couldn't find task %d.", taskID), nil
		}
		return "", fmt.Errorf("complete task: %w", err)
	}
	if !task.Completed {
		return fmt.Sprintf("Reopened task %d: %s", task.ID, task.Title), nil
	}
	if task.RecurrenceRule != "" {
		if _, err := CreateNextOccurrence(a.tasks, *task); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Marked task %d as done: %s", task.ID, task.Title), nil
}

func (a *Assistant) deleteTask(userID, lower string) (string, error) {
	taskID, ok := extractTaskID(lower)
	if !ok {
		return `Which task? Say something like "delete task 5".`, nil
	}
	task, err := a.tasks.GetByID(userID, taskID)
	if err != nil {
		if err == repository.ErrNotFound {
			return fmt.Sprintf("I couldn't find task %d.", taskID), nil
		}
		return "", fmt.Errorf("delete task: %w", err)
	}
	if err := a.tasks.Delete(userID, taskID); err != nil {
		return "", fmt.Errorf("delete task: %w", err)
	}
	return fmt.Sprintf("Deleted task %d: %s", taskID, task.Title), nil
}

func (a *Assistant) createTask(userID, message string) (string, error) {
	title := extractTitle(message)
	if title == "" {
		return `What should the task say? Try "add a task to buy groceries".`, nil
	}
	task, err := a.tasks.Create(userID, models.TaskCreate{Title: title})
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	return fmt.Sprintf("Created task: %s", task.Title), nil
}

func extractTaskID(lower string) (int64, bool) {
	match := taskIDPattern.FindStringSubmatch(lower)
	if match == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// extractTitle pulls the task title out of phrasings like
// "add a task to buy groceries" or "create task: call mom".
func extractTitle(message string) string {
	lower := strings.ToLower(message)
	for _, marker := range []string{"task to ", "task called ", "task: ", "task "} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			return strings.TrimSpace(message[idx+len(marker):])
		}
	}
	for _, marker := range []string{"add ", "create "} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			return strings.TrimSpace(message[idx+len(marker):])
		}
	}
	return ""
}

func formatTask(task models.Task) string {
	marker := "○"
	if task.Completed {
		marker = "✓"
	}
	line := fmt.Sprintf("%s [%d] %s", marker, task.ID, task.Title)
	if task.Description != nil && *task.Description != "" {
		line += " - " + *task.Description
	}
	if task.DueDate != nil {
		line += fmt.Sprintf(" (due: %s)", task.DueDate.Format("2006-01-02"))
	}
	return line
}
