package devapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mabletask/dashboard/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]*models.User)}
}

func (s *UserStore) CreateUser(name, email string, hashedPassword []byte) (*models.User, error) {
	key := strings.ToLower(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[key]; ok {
		return nil, ErrUserExists
	}
	user := &models.User{
		Account: models.Account{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		},
		HashedPassword: hashedPassword,
	}
	s.byEmail[key] = user
	return user, nil
}

func (s *UserStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}
