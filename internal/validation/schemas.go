package validation

import (
	"strconv"
	"time"

	"expensetracker/internal/model"
)

// ExpenseInput is the body of POST /add and the field set of PUT /updateExpense.
type ExpenseInput struct {
	Description   string  `json:"description" validate:"required,max=100"`
	Category      string  `json:"category" validate:"required,max=50"`
	Amount        string  `json:"amount" validate:"required,max=20"`
	PaymentMethod *string `json:"paymentMethod" validate:"omitempty,max=50"`
	Date          string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// Fields returns the caller-controlled expense fields.
func (in ExpenseInput) Fields() model.ExpenseFields {
	return model.ExpenseFields{
		Description:   in.Description,
		Category:      in.Category,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
	}
}

// OccurredOn returns the supplied date, or the zero Date when absent.
// Call only after validation.
func (in ExpenseInput) OccurredOn() model.Date {
	if in.Date == "" {
		return model.Date{}
	}
	d, _ := model.ParseDate(in.Date)
	return d
}

// UpdateExpenseInput is the body of PUT /updateExpense.
type UpdateExpenseInput struct {
	ID int64 `json:"id" validate:"required,gt=0"`
	ExpenseInput
}

// RegistrationInput is the body of POST /register.
type RegistrationInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// AccountRole returns the requested role, USER when omitted.
func (in RegistrationInput) AccountRole() model.Role {
	if in.Role == "" {
		return model.RoleUser
	}
	return model.Role(in.Role)
}

// ExpenseIDParam is the {id} path parameter of DELETE /delete/{id}.
type ExpenseIDParam struct {
	ID string `param:"id" validate:"positiveint"`
}

// Value returns the parsed identifier. Call only after validation.
func (p ExpenseIDParam) Value() int64 {
	n, _ := strconv.ParseInt(p.ID, 10, 64)
	return n
}

// YearMonthParam is the {yearMonth} path parameter of GET /by-month/{yearMonth}.
type YearMonthParam struct {
	YearMonth string `param:"yearMonth" validate:"yearmonth"`
}

// Value returns the year and month. Call only after validation.
func (p YearMonthParam) Value() (int, time.Month) {
	year, _ := strconv.Atoi(p.YearMonth[:4])
	month, _ := strconv.Atoi(p.YearMonth[5:])
	return year, time.Month(month)
}
