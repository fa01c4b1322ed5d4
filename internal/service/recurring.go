package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
)

// RecurrenceConfig is the parsed form of a recurrence rule string.
type RecurrenceConfig struct {
	Pattern    string // DAILY, WEEKLY, MONTHLY, CUSTOM
	Days       []string
	DayOfMonth int
	Interval   int
}

// weekday codes use Monday = 0, matching the rule format.
var weekdayCodes = map[string]int{
	"MON": 0, "TUE": 1, "WED": 2, "THU": 3, "FRI": 4, "SAT": 5, "SUN": 6,
}

// ParseRecurrenceRule parses a rule string. Formats:
//
//	DAILY
//	WEEKLY:MON,WED,FRI
//	MONTHLY:15
//	CUSTOM:7 (every 7 days)
//
// An empty or malformed rule yields nil.
func ParseRecurrenceRule(rule string) *RecurrenceConfig {
	rule = strings.ToUpper(strings.TrimSpace(rule))
	if rule == "" {
		return nil
	}

	if rule == "DAILY" {
		return &RecurrenceConfig{Pattern: "DAILY"}
	}

	if rest, ok := strings.CutPrefix(rule, "WEEKLY:"); ok {
		var days []string
		for _, part := range strings.Split(rest, ",") {
			day := strings.TrimSpace(part)
			if _, known := weekdayCodes[day]; known {
				days = append(days, day)
			}
		}
		if len(days) == 0 {
			return nil
		}
		return &RecurrenceConfig{Pattern: "WEEKLY", Days: days}
	}

	if rest, ok := strings.CutPrefix(rule, "MONTHLY:"); ok {
		day, err := strconv.Atoi(rest)
		if err != nil || day < 1 || day > 31 {
			return nil
		}
		return &RecurrenceConfig{Pattern: "MONTHLY", DayOfMonth: day}
	}

	if rest, ok := strings.CutPrefix(rule, "CUSTOM:"); ok {
		interval, err := strconv.Atoi(rest)
		if err != nil || interval <= 0 {
			return nil
		}
		return &RecurrenceConfig{Pattern: "CUSTOM", Interval: interval}
	}

	return nil
}

// mondayWeekday converts time.Weekday (Sunday = 0) to the rule's Monday = 0.
func mondayWeekday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// NextOccurrence computes the next due date for a recurring task, starting
// from today when the original due date has already passed.
func NextOccurrence(task models.Task, now time.Time) *time.Time {
	if task.RecurrenceRule == "" || task.DueDate == nil {
		return nil
	}
	config := ParseRecurrenceRule(task.RecurrenceRule)
	if config == nil {
		return nil
	}

	base := *task.DueDate
	if base.Before(now) {
		base = now
	}

	switch config.Pattern {
	case "DAILY":
		next := base.AddDate(0, 0, 1)
		return &next

	case "WEEKLY":
		current := mondayWeekday(base.Weekday())
		targets := make([]int, 0, len(config.Days))
		for _, day := range config.Days {
			targets = append(targets, weekdayCodes[day])
		}
		sort.Ints(targets)
		for _, target := range targets {
			if target > current {
				next := base.AddDate(0, 0, target-current)
				return &next
			}
		}
		next := base.AddDate(0, 0, 7-current+targets[0])
		return &next

	case "MONTHLY":
		year, month := base.Year(), int(base.Month())+1
		if month > 12 {
			month = 1
			year++
		}
		// Clamp to 28 to avoid month-end arithmetic surprises.
		day := config.DayOfMonth
		if day > 28 {
			day = 28
		}
		next := time.Date(year, time.Month(month), day,
			base.Hour(), base.Minute(), base.Second(), 0, base.Location())
		return &next

	case "CUSTOM":
		next := base.AddDate(0, 0, config.Interval)
		return &next
	}

	return nil
}

// CreateNextOccurrence regenerates a just-completed recurring task: same
// title, description, priority and rule, new due date, reminder shifted by
// the original due-to-reminder offset, linked to the completed task.
func CreateNextOccurrence(tasks *repository.TaskRepository, completed models.Task) (*models.Task, error) {
	nextDue := NextOccurrence(completed, time.Now().UTC())
	if nextDue == nil {
		return nil, nil
	}

	var nextReminder *time.Time
	if completed.ReminderAt != nil && completed.DueDate != nil {
		offset := completed.DueDate.Sub(*completed.ReminderAt)
		reminder := nextDue.Add(-offset)
		nextReminder = &reminder
	}

	parentID := completed.ID
	occurrence, err := tasks.CreateOccurrence(models.Task{
		UserID:         completed.UserID,
		Title:          completed.Title,
		Description:    completed.Description,
		Priority:       completed.Priority,
		DueDate:        nextDue,
		ReminderAt:     nextReminder,
		RecurrenceRule: completed.RecurrenceRule,
		ParentTaskID:   &parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("create next occurrence: %w", err)
	}
	return occurrence, nil
}
