package handlers

// LoginRequest represents an admin login attempt
type LoginRequest struct {
	Password string `json:"password"`
}
