package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"expensetracker/internal/auth"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
	"expensetracker/internal/repository"
)

// AccountService handles account registration.
type AccountService interface {
	Register(ctx context.Context, username, password string, role model.Role) (*model.Account, error)
}

type accountService struct {
	repo   repository.AccountRepository
	hasher auth.Hasher
}

// NewAccountService creates a new account service.
func NewAccountService(repo repository.AccountRepository, hasher auth.Hasher) AccountService {
	return &accountService{
		repo:   repo,
		hasher: hasher,
	}
}

// Register creates an account with a hashed password. The role defaults to
// USER.
func (s *accountService) Register(ctx context.Context, username, password string, role model.Role) (*model.Account, error) {
	if role == "" {
		role = model.RoleUser
	}

	// Check if account already exists
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrConflict
	}
	if err != nil && !errors.Is(err, apperrors.ErrAccountNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperrors.NewValidationError(apperrors.Violation{
				Field:   "password",
				Message: "Password must be at most 72 bytes",
			})
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Username:     username,
		PasswordHash: digest,
		Role:         role,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}
