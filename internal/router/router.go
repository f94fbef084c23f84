package router

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"expensetracker/internal/auth"
	"expensetracker/internal/config"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/handler"
	"expensetracker/internal/logger"
	"expensetracker/internal/validation"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	authenticator *auth.Authenticator,
	expenseHandler *handler.ExpenseHandler,
	accountHandler *handler.AccountHandler,
	metaHandler *handler.MetaHandler,
) {
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler(cfg.IsDevelopment())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(contextLogger(log))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := logger.FromContext(c.Request().Context())
			l.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	requireAuth := auth.RequireAuth(authenticator)

	// Public routes
	e.GET("/", metaHandler.Welcome, auth.OptionalAuth(authenticator))
	e.GET("/api-docs", metaHandler.APIDocs)
	e.GET("/healthz", metaHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.POST("/register", accountHandler.Register)

	// Auth routes
	e.POST("/login", accountHandler.Login, requireAuth)
	e.GET("/me", accountHandler.Me, requireAuth)

	// Expense routes
	e.GET("/all", expenseHandler.All, requireAuth)
	e.GET("/by-month/:yearMonth", expenseHandler.ByMonth, requireAuth)
	e.POST("/add", expenseHandler.Add, requireAuth)
	e.PUT("/updateExpense", expenseHandler.Update, requireAuth)
	e.DELETE("/delete/:id", expenseHandler.Delete, requireAuth)
}

// contextLogger puts a logger carrying the request id into the request
// context.
func contextLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			l := base.With().Str("request_id", id).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))
			return next(c)
		}
	}
}

// ErrorHandler renders every error as an ErrorResponse. Internal error
// detail is only shown in development.
func ErrorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorBody(err, c, development)
		if status >= http.StatusInternalServerError {
			l := logger.FromContext(c.Request().Context())
			l.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			l := logger.FromContext(c.Request().Context())
			l.Error().Err(err).Msg("write error response")
		}
	}
}

func errorBody(err error, c echo.Context, development bool) (int, apperrors.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return http.StatusNotFound, apperrors.ErrorResponse{
				Error: "Endpoint not found",
				Path:  c.Request().URL.Path,
			}
		}
		if resp, ok := he.Message.(apperrors.ErrorResponse); ok {
			return he.Code, resp
		}
		if he.Code < http.StatusInternalServerError {
			return he.Code, apperrors.ErrorResponse{Error: http.StatusText(he.Code)}
		}
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	resp := httpErr.ToErrorResponse()
	if httpErr.StatusCode == http.StatusInternalServerError {
		resp.Message = "Something went wrong"
		if development {
			resp.Message = err.Error()
		}
	}
	return httpErr.StatusCode, resp
}
