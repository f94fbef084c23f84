package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "expensetracker/internal/errors"
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// messages holds the client-facing text per "field.tag".
var messages = map[string]string{
	"description.required": "Description is required",
	"description.max":      "Description must be at most 100 characters",
	"category.required":    "Category is required",
	"category.max":         "Category must be at most 50 characters",
	"amount.required":      "Amount is required",
	"amount.max":           "Amount must be at most 20 characters",
	"paymentMethod.max":    "Payment method must be at most 50 characters",
	"date.datetime":        "Date must be in YYYY-MM-DD format",
	"id.required":          "Expense ID is required for update",
	"id.gt":                "Expense ID must be a positive integer",
	"id.positiveint":       "Expense ID must be a positive integer",
	"username.required":    "Username is required",
	"username.min":         "Username must be between 3 and 50 characters",
	"username.max":         "Username must be between 3 and 50 characters",
	"password.required":    "Password is required",
	"password.min":         "Password must be at least 6 characters long",
	"role.oneof":           "Role must be either USER or ADMIN",
	"yearMonth.yearmonth":  "Year-month must be in YYYY-MM format",
}

// Validator runs declarative field checks and reports every violation at once.
// It implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("positiveint", isPositiveInt)
	_ = v.RegisterValidation("yearmonth", isYearMonth)
	return &Validator{validate: v}
}

// Validate checks i and returns a *errors.ValidationError listing every
// failed field, or nil.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	violations := make([]apperrors.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, apperrors.Violation{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return apperrors.NewValidationError(violations...)
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}

// fieldName reports json or path parameter names instead of Go field names.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "param"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func isPositiveInt(fl validator.FieldLevel) bool {
	n, err := strconv.ParseInt(fl.Field().String(), 10, 64)
	return err == nil && n >= 1
}

func isYearMonth(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !yearMonthPattern.MatchString(s) {
		return false
	}
	month, _ := strconv.Atoi(s[5:])
	return month >= 1 && month <= 12
}
