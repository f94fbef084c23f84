package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
)

// AccountRepository defines credential store operations.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
}

type accountRepository struct {
	store
}

// NewAccountRepository creates a new account repository. Each call is bounded
// by timeout.
func NewAccountRepository(db *gorm.DB, timeout time.Duration) AccountRepository {
	return &accountRepository{store: newStore(db, timeout)}
}

// Create persists a new account. A taken username yields ErrConflict.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	db, cancel := r.conn(ctx)
	defer cancel()
	return translate("create account", db.Create(account).Error)
}

// FindByUsername finds an account by exact, case-sensitive username.
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	var account model.Account
	if err := db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, translate("find account", err)
	}
	return &account, nil
}
