package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasmin191/hackathon-todo-evolution/internal/worker"
)

type ReminderHandler struct {
	reminders *worker.ReminderWorker
}

func NewReminderHandler(reminders *worker.ReminderWorker) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// Check runs one reminder sweep on demand.
func (h *ReminderHandler) Check(w http.ResponseWriter, r *http.Request) {
	checked, reminded, err := h.reminders.Sweep()
	if err != nil {
		log.Error().Err(err).Msg("reminder sweep failed")
		writeError(w, http.StatusInternalServerError, "Reminder sweep failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"checked":  checked,
		"reminded": reminded,
	})
}
