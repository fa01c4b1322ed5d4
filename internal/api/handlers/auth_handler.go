package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
	"github.com/yasmin191/hackathon-todo-evolution/internal/repository"
)

const tokenLifetime = 7 * 24 * time.Hour

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

type AuthHandler struct {
	users  *repository.UserRepository
	secret []byte
}

func NewAuthHandler(users *repository.UserRepository, secret []byte) *AuthHandler {
	return &AuthHandler{users: users, secret: secret}
}

// DemoLogin issues a session for any syntactically plausible email. There is
// no password; the user id is derived from the email.
func (h *AuthHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	userID := "user_" + nonAlnum.ReplaceAllString(email, "_")

	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign session token")
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	if err := h.users.Upsert(userID, email); err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to record user")
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		UserID: userID,
		Email:  email,
		Token:  token,
	})
}
