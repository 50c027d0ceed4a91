package v1

import "time"

// Credentials is the register/login payload. The wire name of the username
// field is kept as "identifiant" for existing clients.
type Credentials struct {
	Username string `json:"identifiant" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

// Principal is a registered identity. The credential is stored hashed and
// never changes after registration.
type Principal struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
}

// ValidateRequest asks the Token service to resolve a bearer token.
type ValidateRequest struct {
	Token string `json:"token" binding:"required"`
}

// ValidateResponse names the principal a token is bound to.
type ValidateResponse struct {
	Username string `json:"username"`
}
