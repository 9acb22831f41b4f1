package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a new account request.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Name      string
	BirthDate *time.Time
}

// Register creates the account with an empty activity link and returns a session token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (string, *User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if input.BirthDate == nil || input.BirthDate.IsZero() {
		return "", nil, fmt.Errorf("%w: birthDate is required", ErrInvalidInput)
	}

	existing, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if existing != nil {
		return "", nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.passwordCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(input.Name),
		BirthDate:    input.BirthDate,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	s.logger.Printf("registered user %d", user.ID)
	return token, user, nil
}

// Login verifies the password and returns a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.store.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *Service) issue(user *User) (string, error) {
	if s.tokens == nil {
		return "", errors.New("token issuer not configured")
	}
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// UpdateUser overwrites the editable fields of an existing user. An unknown
// id is reported before the fields are validated.
func (s *Service) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*User, error) {
	if err := s.requireUser(ctx, id); err != nil {
		return nil, err
	}

	update.Username = strings.TrimSpace(update.Username)
	if update.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	user, err := s.store.UpdateUser(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// DeleteUser removes the user and everything only they reference in a single
// transaction. Nothing is removed when any step fails.
func (s *Service) DeleteUser(ctx context.Context, id int64) (DeleteSummary, error) {
	if err := s.requireUser(ctx, id); err != nil {
		return DeleteSummary{}, err
	}

	summary, err := s.store.DeleteUserCascade(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return DeleteSummary{}, err
		}
		return DeleteSummary{}, fmt.Errorf("delete user %d: %w", id, err)
	}
	s.logger.Printf("deleted user %d (workouts=%d diets=%d ranks=%d muscle_groups=%d links=%d)",
		id, summary.Workouts, summary.Diets, summary.Ranks, summary.MuscleGroups, summary.Links)
	return summary, nil
}
