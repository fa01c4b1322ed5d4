package api

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/yasmin191/hackathon-todo-evolution/internal/api/handlers"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
	"github.com/yasmin191/hackathon-todo-evolution/internal/service"
	"github.com/yasmin191/hackathon-todo-evolution/internal/worker"
)

// SetupRouter wires every endpoint. All /api routes require a bearer token
// except the login itself; /reminders/check is an operational hook.
//
// The /api space is split across two sub-muxes: the chat routes use literal
// first segments (chat, conversations) while the task and tag routes put a
// wildcard {userId} there, and ServeMux rejects the two pattern families as
// conflicting when registered together. A prefix check picks the sub-mux.
func SetupRouter(db *sql.DB, jwtSecret []byte, reminders *worker.ReminderWorker) *http.ServeMux {
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	userRepo := repository.NewUserRepository(db)
	assistant := service.NewAssistant(taskRepo, tagRepo)

	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	taskHandler := handlers.NewTaskHandler(taskRepo, tagRepo)
	tagHandler := handlers.NewTagHandler(tagRepo)
	chatHandler := handlers.NewChatHandler(conversationRepo, assistant)
	reminderHandler := handlers.NewReminderHandler(reminders)

	auth := func(next func(http.ResponseWriter, *http.Request, handlers.AuthUser)) http.HandlerFunc {
		return handlers.Authenticate(jwtSecret, next)
	}

	userMux := http.NewServeMux()
	userMux.HandleFunc("GET /api/{userId}/tasks", auth(taskHandler.List))
	userMux.HandleFunc("POST /api/{userId}/tasks", auth(taskHandler.Create))
	userMux.HandleFunc("GET /api/{userId}/tasks/{id}", auth(taskHandler.Get))
	userMux.HandleFunc("PUT /api/{userId}/tasks/{id}", auth(taskHandler.Update))
	userMux.HandleFunc("DELETE /api/{userId}/tasks/{id}", auth(taskHandler.Delete))
	userMux.HandleFunc("PATCH /api/{userId}/tasks/{id}/complete", auth(taskHandler.ToggleComplete))
	userMux.HandleFunc("POST /api/{userId}/tasks/{id}/tags", auth(taskHandler.AttachTags))
	userMux.HandleFunc("DELETE /api/{userId}/tasks/{id}/tags/{tagId}", auth(taskHandler.DetachTag))
	userMux.HandleFunc("GET /api/{userId}/tags", auth(tagHandler.List))
	userMux.HandleFunc("POST /api/{userId}/tags", auth(tagHandler.Create))
	userMux.HandleFunc("PUT /api/{userId}/tags/{id}", auth(tagHandler.Update))
	userMux.HandleFunc("DELETE /api/{userId}/tags/{id}", auth(tagHandler.Delete))

	chatMux := http.NewServeMux()
	chatMux.HandleFunc("POST /api/chat", auth(chatHandler.Chat))
	chatMux.HandleFunc("GET /api/conversations", auth(chatHandler.Conversations))
	chatMux.HandleFunc("GET /api/conversations/{id}/messages", auth(chatHandler.Messages))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/demo-login", authHandler.DemoLogin)
	mux.HandleFunc("POST /reminders/check", reminderHandler.Check)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		head, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/"), "/")
		if head == "chat" || head == "conversations" {
			chatMux.ServeHTTP(w, r)
			return
		}
		userMux.ServeHTTP(w, r)
	})

	return mux
}
