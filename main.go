package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasmin191/hackathon-todo-evolution/internal/api"
	"github.com/yasmin191/hackathon-todo-evolution/internal/email"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
	"github.com/yasmin191/hackathon-todo-evolution/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	dbPath := os.Getenv("TODO_DB_PATH")
	if dbPath == "" {
		dbPath = "./todo.db"
	}
	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	interval := time.Minute
	if raw := os.Getenv("REMINDER_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REMINDER_INTERVAL")
		}
		interval = parsed
	}

	mailer := email.NewMailerFromEnv()
	if mailer == nil {
		log.Warn().Msg("EMAIL_ADDRESS not set, reminder delivery disabled")
	}
	reminders := worker.NewReminderWorker(
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		mailerOrNil(mailer),
		interval,
	)
	go reminders.Start(context.Background())

	mux := api.SetupRouter(db, []byte(jwtSecret), reminders)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("server listening")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// mailerOrNil avoids storing a typed nil behind the Mailer interface.
func mailerOrNil(m *email.Mailer) worker.Mailer {
	if m == nil {
		return nil
	}
	return m
}
