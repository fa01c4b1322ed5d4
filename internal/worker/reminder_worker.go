package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
)

// Mailer delivers a reminder. Nil mailers are allowed and disable delivery.
type Mailer interface {
	Send(to, subject, body string) error
}

// ReminderWorker periodically finds tasks whose reminder time has passed and
// emails their owners. Each task is reminded at most once.
type ReminderWorker struct {
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	mailer   Mailer
	interval time.Duration
}

func NewReminderWorker(tasks *repository.TaskRepository, users *repository.UserRepository, mailer Mailer, interval time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderWorker{tasks: tasks, users: users, mailer: mailer, interval: interval}
}

// Start runs sweeps until the context is cancelled.
func (w *ReminderWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("reminder worker started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reminder worker stopped")
			return
		case <-ticker.C:
			if _, _, err := w.Sweep(); err != nil {
				log.Error().Err(err).Msg("reminder sweep failed")
			}
		}
	}
}

// Sweep processes all currently due reminders and reports how many tasks
// were checked and how many reminders went out.
func (w *ReminderWorker) Sweep() (checked, reminded int, err error) {
	due, err := w.tasks.NeedingReminder(time.Now().UTC())
	if err != nil {
		return 0, 0, fmt.Errorf("find due reminders: %w", err)
	}

	for _, task := range due {
		checked++
		if err := w.remind(task); err != nil {
			log.Error().Err(err).Int64("taskID", task.ID).Msg("failed to send reminder")
			continue
		}
		if err := w.tasks.MarkReminded(task.ID); err != nil {
			log.Error().Err(err).Int64("taskID", task.ID).Msg("failed to mark reminded")
			continue
		}
		reminded++
	}
	return checked, reminded, nil
}

func (w *ReminderWorker) remind(task models.Task) error {
	if w.mailer == nil {
		return fmt.Errorf("no mailer configured")
	}
	to, err := w.users.GetEmail(task.UserID)
	if err != nil {
		return fmt.Errorf("look up owner email: %w", err)
	}

	subject := "Reminder: " + task.Title
	body := fmt.Sprintf("Your task %q is coming up.", task.Title)
	if task.DueDate != nil {
		body = fmt.Sprintf("Your task %q is due %s.", task.Title, task.DueDate.Format("2006-01-02 15:04"))
	}
	return w.mailer.Send(to, subject, body)
}
