package devapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"mabletask/dashboard/models"
)

type AuthHandlers struct {
	users  *UserStore
	tokens *TokenIssuer
}

func NewAuthHandlers(users *UserStore, tokens *TokenIssuer) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens}
}

func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "details": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("DevAPI: failed to hash password for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process password"})
		return
	}

	user, err := h.users.CreateUser(req.Name, req.Email, hashedPassword)
	if errors.Is(err, ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"message": "User with this email already exists"})
		return
	}
	if err != nil {
		log.Printf("DevAPI: failed to create user %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
		return
	}

	log.Printf("DevAPI: user registered: ID=%s, Email=%s", user.ID, user.Email)
	c.JSON(http.StatusCreated, user.Account)
}

func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("DevAPI: login failed for %s: %v", req.Email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.Password)); err != nil {
		log.Printf("DevAPI: login failed for %s: password mismatch", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Printf("DevAPI: failed to issue token for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate authentication token"})
		return
	}

	log.Printf("DevAPI: user logged in: ID=%s, Email=%s", user.ID, user.Email)
	c.JSON(http.StatusOK, gin.H{"access_token": token, "user": user.Account})
}
