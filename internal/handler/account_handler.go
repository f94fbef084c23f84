package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"expensetracker/internal/auth"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
	"expensetracker/internal/service"
	"expensetracker/internal/validation"
)

// AccountHandler handles registration and identity endpoints.
type AccountHandler struct {
	accountService service.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Message string         `json:"message"`
	User    *model.Account `json:"user"`
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.RegistrationInput true "Registration data"
// @Success 201 {object} model.Account
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req validation.RegistrationInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accountService.Register(c.Request().Context(), req.Username, req.Password, req.AccountRole())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// Login godoc
// @Summary Check credentials
// @Description Credentials travel in the Authorization header.
// @Tags auth
// @Produce json
// @Security BasicAuth
// @Success 200 {object} LoginResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	account, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    account,
	})
}

// Me godoc
// @Summary Current principal
// @Tags auth
// @Produce json
// @Security BasicAuth
// @Success 200 {object} model.Account
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	account, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperrors.ErrUnauthorized
	}
	return c.JSON(http.StatusOK, account)
}
