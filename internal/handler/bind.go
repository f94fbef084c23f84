package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "expensetracker/internal/errors"
)

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// bindAndValidate decodes the request body into req and runs the validation
// pipeline over it. An undecodable body is reported as a violation on "body".
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewValidationError(apperrors.Violation{
			Field:   "body",
			Message: "Request body must be a valid JSON object",
		})
	}
	return c.Validate(req)
}
