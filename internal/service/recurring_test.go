package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
)

func TestParseRecurrenceRule(t *testing.T) {
	cases := []struct {
		rule string
		want *RecurrenceConfig
	}{
		{"DAILY", &RecurrenceConfig{Pattern: "DAILY"}},
		{"daily", &RecurrenceConfig{Pattern: "DAILY"}},
		{"WEEKLY:MON,WED,FRI", &RecurrenceConfig{Pattern: "WEEKLY", Days: []string{"MON", "WED", "FRI"}}},
		{"weekly:sun", &RecurrenceConfig{Pattern: "WEEKLY", Days: []string{"SUN"}}},
		{"MONTHLY:15", &RecurrenceConfig{Pattern: "MONTHLY", DayOfMonth: 15}},
		{"CUSTOM:7", &RecurrenceConfig{Pattern: "CUSTOM", Interval: 7}},
		{"", nil},
		{"YEARLY", nil},
		{"WEEKLY:XYZ", nil},
		{"MONTHLY:0", nil},
		{"MONTHLY:32", nil},
		{"CUSTOM:-1", nil},
		{"CUSTOM:abc", nil},
	}

	for _, tc := range cases {
		got := ParseRecurrenceRule(tc.rule)
		if tc.want == nil {
			if got != nil {
				t.Errorf("ParseRecurrenceRule(%q) = %+v, want nil", tc.rule, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseRecurrenceRule(%q) = nil", tc.rule)
			continue
		}
		if got.Pattern != tc.want.Pattern || got.DayOfMonth != tc.want.DayOfMonth ||
			got.Interval != tc.want.Interval || len(got.Days) != len(tc.want.Days) {
			t.Errorf("ParseRecurrenceRule(%q) = %+v, want %+v", tc.rule, got, tc.want)
			continue
		}
		for i := range got.Days {
			if got.Days[i] != tc.want.Days[i] {
				t.Errorf("ParseRecurrenceRule(%q).Days = %v, want %v", tc.rule, got.Days, tc.want.Days)
			}
		}
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestNextOccurrenceDaily(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	next := NextOccurrence(models.Task{RecurrenceRule: "DAILY", DueDate: &due}, now)
	if next == nil || !next.Equal(due.AddDate(0, 0, 1)) {
		t.Fatalf("next = %v, want %v", next, due.AddDate(0, 0, 1))
	}
}

func TestNextOccurrenceDailyFromPastDue(t *testing.T) {
	// An overdue task recurs from now, not from its stale due date.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	next := NextOccurrence(models.Task{RecurrenceRule: "DAILY", DueDate: &due}, now)
	if next == nil || !next.Equal(now.AddDate(0, 0, 1)) {
		t.Fatalf("next = %v, want %v", next, now.AddDate(0, 0, 1))
	}
}

func TestNextOccurrenceWeekly(t *testing.T) {
	// 2026-03-10 is a Tuesday.
	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := due.Add(-time.Hour)

	next := NextOccurrence(models.Task{RecurrenceRule: "WEEKLY:MON,WED", DueDate: &due}, now)
	want := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC) // next Wednesday
	if next == nil || !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}

	// From Friday the rule wraps to the following Monday.
	friday := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	next = NextOccurrence(models.Task{RecurrenceRule: "WEEKLY:MON,WED", DueDate: &friday}, friday.Add(-time.Hour))
	want = time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	if next == nil || !next.Equal(want) {
		t.Fatalf("wrapped next = %v, want %v", next, want)
	}
}

func TestNextOccurrenceMonthlyClamped(t *testing.T) {
	due := time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC)
	now := due.Add(-time.Hour)

	next := NextOccurrence(models.Task{RecurrenceRule: "MONTHLY:31", DueDate: &due}, now)
	want := time.Date(2026, 2, 28, 9, 30, 0, 0, time.UTC)
	if next == nil || !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextOccurrenceMonthlyYearWrap(t *testing.T) {
	due := time.Date(2026, 12, 15, 8, 0, 0, 0, time.UTC)
	now := due.Add(-time.Hour)

	next := NextOccurrence(models.Task{RecurrenceRule: "MONTHLY:15", DueDate: &due}, now)
	want := time.Date(2027, 1, 15, 8, 0, 0, 0, time.UTC)
	if next == nil || !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextOccurrenceCustom(t *testing.T) {
	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := due.Add(-time.Hour)

	next := NextOccurrence(models.Task{RecurrenceRule: "CUSTOM:10", DueDate: &due}, now)
	if next == nil || !next.Equal(due.AddDate(0, 0, 10)) {
		t.Fatalf("next = %v, want %v", next, due.AddDate(0, 0, 10))
	}
}

func TestNextOccurrenceNeedsRuleAndDueDate(t *testing.T) {
	now := time.Now().UTC()
	if next := NextOccurrence(models.Task{RecurrenceRule: "DAILY"}, now); next != nil {
		t.Fatalf("no due date: next = %v", next)
	}
	if next := NextOccurrence(models.Task{DueDate: datePtr(now)}, now); next != nil {
		t.Fatalf("no rule: next = %v", next)
	}
	if next := NextOccurrence(models.Task{RecurrenceRule: "BOGUS", DueDate: datePtr(now)}, now); next != nil {
		t.Fatalf("invalid rule: next = %v", next)
	}
}

func TestCreateNextOccurrence(t *testing.T) {
	db, err := repository.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	defer db.Close()
	tasks := repository.NewTaskRepository(db)

	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	reminder := due.Add(-2 * time.Hour)
	desc := "weekly sync notes"
	created, err := tasks.Create("user_a", models.TaskCreate{
		Title:          "prepare agenda",
		Description:    &desc,
		Priority:       models.PriorityHigh,
		DueDate:        &due,
		ReminderAt:     &reminder,
		RecurrenceRule: "CUSTOM:7",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	next, err := CreateNextOccurrence(tasks, *created)
	if err != nil {
		t.Fatalf("create next occurrence: %v", err)
	}
	if next == nil {
		t.Fatal("no occurrence created")
	}

	if next.Title != created.Title || next.Priority != created.Priority {
		t.Fatalf("field mismatch: %+v", next)
	}
	if next.ParentTaskID == nil || *next.ParentTaskID != created.ID {
		t.Fatalf("parent link = %v, want %d", next.ParentTaskID, created.ID)
	}
	if next.DueDate == nil || !next.DueDate.Equal(due.AddDate(0, 0, 7)) {
		t.Fatalf("next due = %v, want %v", next.DueDate, due.AddDate(0, 0, 7))
	}
	// The reminder keeps its distance from the due date.
	if next.ReminderAt == nil || next.DueDate.Sub(*next.ReminderAt) != 2*time.Hour {
		t.Fatalf("next reminder = %v for due %v", next.ReminderAt, next.DueDate)
	}
	if next.Completed {
		t.Fatal("new occurrence must start incomplete")
	}
}

func TestCreateNextOccurrenceNonRecurring(t *testing.T) {
	db, err := repository.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	defer db.Close()
	tasks := repository.NewTaskRepository(db)

	created, err := tasks.Create("user_a", models.TaskCreate{Title: "one-off"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	next, err := CreateNextOccurrence(tasks, *created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != nil {
		t.Fatalf("occurrence created for non-recurring task: %+v", next)
	}
}
