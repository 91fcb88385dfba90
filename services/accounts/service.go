// Package accounts manages user registration and credential verification.
package accounts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"studystream/internal/database"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountNotFound    = errors.New("account not found")
)

// Service manages user accounts on top of the user repository.
type Service struct {
	users *database.UserRepository
}

// NewService creates an accounts service backed by the given repository.
func NewService(users *database.UserRepository) *Service {
	return &Service{users: users}
}

// Register creates a new account. A username collision is rejected with
// ErrUsernameExists.
func (s *Service) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.users.CreateUser(&database.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if errors.Is(err, database.ErrUsernameExists) {
		return ErrUsernameExists
	}
	return err
}

// Authenticate verifies the username and password.
func (s *Service) Authenticate(username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	user, err := s.users.GetUser(username)
	if err != nil {
		return err
	}
	if user == nil {
		// Run a bcrypt comparison anyway to keep timing uniform
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$dummy"), []byte(password))
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Exists reports whether an account with the given username is registered.
func (s *Service) Exists(username string) (bool, error) {
	user, err := s.users.GetUser(strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Delete removes the account and all schedules it owns. The repository runs
// both deletes in one transaction, so no orphaned schedules remain.
func (s *Service) Delete(username string) error {
	err := s.users.DeleteUser(strings.TrimSpace(username))
	if errors.Is(err, database.ErrUserNotFound) {
		return ErrAccountNotFound
	}
	return err
}
