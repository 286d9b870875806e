package service

import (
	"context"
	"fmt"

	"github.com/vijaysolanki/secrets/internal/domain"
)

// SecretService handles submitting and listing per-user secrets.
type SecretService struct {
	users domain.UserRepository
}

// NewSecretService creates a new SecretService.
func NewSecretService(users domain.UserRepository) *SecretService {
	return &SecretService{users: users}
}

// Submit stores a secret on the user verbatim, overwriting any prior one.
// There is no history; each submission replaces the last.
func (s *SecretService) Submit(ctx context.Context, userID int64, secret string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	user.Secret = &secret
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("save secret: %w", err)
	}

	return nil
}

// ListShared returns all users that have submitted a secret.
func (s *SecretService) ListShared(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListWithSecrets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users with secrets: %w", err)
	}
	return users, nil
}
