package models

import (
	"encoding/json"
	"time"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// SignupForm is what the sign-up screen submits. ConfirmPassword never leaves
// the dashboard; RegisterRequest is the wire shape.
type SignupForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (f SignupForm) RegisterRequest() RegisterRequest {
	return RegisterRequest{Name: f.Name, Email: f.Email, Password: f.Password}
}

// LoginResponse is the body of a successful POST /api/auth/login. User is kept
// raw: the dashboard only stores it as an informational snapshot.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

// Account is the public profile returned by register and embedded in the
// login response.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	Account
	HashedPassword []byte `json:"-"`
}
