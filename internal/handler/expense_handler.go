package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"expensetracker/internal/logger"
	"expensetracker/internal/service"
	"expensetracker/internal/validation"
)

// ExpenseHandler handles expense endpoints.
type ExpenseHandler struct {
	expenseService service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// All godoc
// @Summary List all expenses
// @Tags expenses
// @Produce json
// @Security BasicAuth
// @Success 200 {array} model.Expense
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /all [get]
func (h *ExpenseHandler) All(c echo.Context) error {
	expenses, err := h.expenseService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expenses)
}

// ByMonth godoc
// @Summary List expenses of one month
// @Tags expenses
// @Produce json
// @Security BasicAuth
// @Param yearMonth path string true "Month as YYYY-MM"
// @Success 200 {array} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /by-month/{yearMonth} [get]
func (h *ExpenseHandler) ByMonth(c echo.Context) error {
	param := validation.YearMonthParam{YearMonth: c.Param("yearMonth")}
	if err := c.Validate(&param); err != nil {
		return err
	}

	year, month := param.Value()
	expenses, err := h.expenseService.ListByMonth(c.Request().Context(), year, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expenses)
}

// Add godoc
// @Summary Record an expense
// @Description The date defaults to today when omitted.
// @Tags expenses
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param request body validation.ExpenseInput true "Expense"
// @Success 201 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /add [post]
func (h *ExpenseHandler) Add(c echo.Context) error {
	var req validation.ExpenseInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	expense, err := h.expenseService.Create(c.Request().Context(), req.Fields(), req.OccurredOn())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, expense)
}

// Update godoc
// @Summary Replace the fields of an expense
// @Description The date of an expense never changes.
// @Tags expenses
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param request body validation.UpdateExpenseInput true "Expense with id"
// @Success 200 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /updateExpense [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	var req validation.UpdateExpenseInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	expense, err := h.expenseService.Update(c.Request().Context(), req.ID, req.Fields())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, expense)
}

// Delete godoc
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Security BasicAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /delete/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	param := validation.ExpenseIDParam{ID: c.Param("id")}
	if err := c.Validate(&param); err != nil {
		return err
	}

	id := param.Value()
	if err := h.expenseService.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	log := logger.FromContext(c.Request().Context())
	log.Info().Int64("expense_id", id).Msg("expense deleted")

	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Expense with ID %d deleted successfully", id),
	})
}
