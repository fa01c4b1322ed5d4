package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// AuthUser identifies the caller of an authenticated request.
type AuthUser struct {
	UserID string
	Email  string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticate verifies the bearer token and passes the resolved user to the
// wrapped handler.
func Authenticate(secret []byte, next func(http.ResponseWriter, *http.Request, AuthUser)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing authorization token")
			return
		}

		claims := &sessionClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			log.Debug().Err(err).Msg("rejected session token")
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next(w, r, AuthUser{UserID: claims.Subject, Email: claims.Email})
	}
}
