// dashboard/handlers/auth_handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mabletask/dashboard/flow"
	"mabletask/dashboard/models"
	"mabletask/dashboard/validation"
)

type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (json.RawMessage, error)
}

type AuthHandlers struct {
	api     AuthAPI
	ctrl    *flow.Controller
	history *flow.History
	users   UserSnapshot
}

// UserSnapshot reads the stored user for GET /auth/session.
type UserSnapshot interface {
	User() (json.RawMessage, bool)
}

func NewAuthHandlers(api AuthAPI, ctrl *flow.Controller, history *flow.History, users UserSnapshot) *AuthHandlers {
	return &AuthHandlers{api: api, ctrl: ctrl, history: history, users: users}
}

func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, validation.FromBindError(err, &req), "Invalid request body")
		return
	}

	// 1. Ask the remote API for a token. Login is public, so a 401 here is an
	// ordinary "Invalid credentials" failure and never starts the redirect flow.
	resp, err := h.api.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	// 2. Store token + user snapshot and consume the pending redirect (one-shot).
	target, err := h.ctrl.CompleteLogin(resp.AccessToken, resp.User)
	if err != nil {
		log.Printf("ERROR: Failed to store session for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session"})
		return
	}

	log.Printf("User logged in: Email=%s, redirect=%s", req.Email, target)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "redirect": target})
}

func (h *AuthHandlers) SignUp(c *gin.Context) {
	var form models.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, validation.FromBindError(err, &form), "Invalid request body")
		return
	}
	// Password confirmation is checked here and never sent to the API.
	if err := validation.Struct(&form); err != nil {
		respondError(c, err, "Invalid request body")
		return
	}

	account, err := h.api.Register(c.Request.Context(), form.RegisterRequest())
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}

	// Registration does not sign the user in; send them to the sign-in screen.
	h.history.Navigate(flow.LoginPath)
	log.Printf("User registered: Email=%s", form.Email)
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "user": account, "redirect": flow.LoginPath})
}

// Logout drops the token and user snapshot. A pending redirect survives.
func (h *AuthHandlers) Logout(c *gin.Context) {
	target := h.ctrl.Logout()
	log.Println("User logged out (session cleared).")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "redirect": target})
}

// Session reports whether a token is held and where the navigator is.
func (h *AuthHandlers) Session(c *gin.Context) {
	body := gin.H{"state": h.ctrl.State(), "location": h.history.Location()}
	if user, ok := h.users.User(); ok {
		body["user"] = user
	}
	c.JSON(http.StatusOK, body)
}
