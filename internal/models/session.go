package models

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthSession is the locally persisted proof of authentication. The token is
// opaque to the client.
type AuthSession struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}
