package auth

import (
	"github.com/labstack/echo/v4"

	"expensetracker/internal/logger"
	"expensetracker/internal/model"
)

const principalKey = "principal"

// RequireAuth rejects the request unless it carries valid credentials.
func RequireAuth(a *Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := a.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				logRejection(c, err)
				return err
			}
			c.Set(principalKey, account)
			return next(c)
		}
	}
}

// OptionalAuth attaches a principal when the credentials are valid and
// continues anonymously otherwise.
func OptionalAuth(a *Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}
			account, err := a.Authenticate(c.Request().Context(), header)
			if err != nil {
				logRejection(c, err)
				return next(c)
			}
			c.Set(principalKey, account)
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated account attached to c, if any.
func PrincipalFrom(c echo.Context) (*model.Account, bool) {
	account, ok := c.Get(principalKey).(*model.Account)
	return account, ok && account != nil
}

func logRejection(c echo.Context, err error) {
	log := logger.FromContext(c.Request().Context())
	if reason, ok := ReasonOf(err); ok {
		log.Debug().Str("reason", reason.String()).Str("path", c.Path()).Msg("authentication rejected")
		return
	}
	log.Error().Err(err).Msg("authentication failed")
}
