package auth

import (
	"context"
	"errors"
	"fmt"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
)

// AccountFinder resolves a username to its stored account.
type AccountFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
}

type burner interface {
	Burn(secret string)
}

// Authenticator verifies Basic credentials against the credential store.
type Authenticator struct {
	accounts AccountFinder
	hasher   Hasher
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(accounts AccountFinder, hasher Hasher) *Authenticator {
	return &Authenticator{accounts: accounts, hasher: hasher}
}

// Authenticate resolves the principal for an Authorization header. Rejections
// are *Rejection values; store failures are returned wrapped as they are.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*model.Account, error) {
	creds, err := ParseBasic(header)
	if err != nil {
		return nil, err
	}

	account, err := a.accounts.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			if b, ok := a.hasher.(burner); ok {
				b.Burn(creds.Password)
			}
			return nil, &Rejection{Reason: ReasonUnknownIdentity}
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if !a.hasher.Verify(creds.Password, account.PasswordHash) {
		return nil, &Rejection{Reason: ReasonWrongSecret}
	}
	return account, nil
}
