package router

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"expensetracker/docs"
	"expensetracker/internal/auth"
	"expensetracker/internal/config"
	"expensetracker/internal/db/dbtest"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/handler"
	"expensetracker/internal/model"
	"expensetracker/internal/repository"
	"expensetracker/internal/service"
)

type testServer struct {
	e     *echo.Echo
	ready *atomic.Bool
}

func newTestServer(t *testing.T, env string) *testServer {
	t.Helper()

	gdb := dbtest.Open(t)
	accountRepo := repository.NewAccountRepository(gdb, time.Second)
	expenseRepo := repository.NewExpenseRepository(gdb, time.Second)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	authenticator := auth.NewAuthenticator(accountRepo, hasher)

	ready := new(atomic.Bool)
	ready.Store(true)

	e := echo.New()
	Register(
		e,
		&config.Config{Env: env, CORSOrigin: "http://localhost:5173"},
		zerolog.Nop(),
		authenticator,
		handler.NewExpenseHandler(service.NewExpenseService(expenseRepo, nil, 0)),
		handler.NewAccountHandler(service.NewAccountService(accountRepo, hasher)),
		handler.NewMetaHandler(docs.SwaggerInfo.InstanceName(), ready),
	)
	return &testServer{e: e, ready: ready}
}

func (s *testServer) do(t *testing.T, method, path, body, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func basic(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestScenario_RegisterAddListDelete(t *testing.T) {
	s := newTestServer(t, "production")
	alice := basic("alice", "secret1")

	rec := s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	account := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "alice", account["username"])
	assert.Equal(t, "USER", account["role"])
	assert.NotContains(t, rec.Body.String(), "secret1")
	assert.NotContains(t, account, "password")

	rec = s.do(t, http.MethodPost, "/add", `{"description":"Coffee","category":"Food","amount":"4.50"}`, alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.Expense](t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.DateOf(time.Now()), created.OccurredOn)
	assert.Equal(t, "4.50", created.Amount)

	rec = s.do(t, http.MethodGet, "/all", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []model.Expense{created}, decode[[]model.Expense](t, rec))

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/delete/%d", created.ID), "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fmt.Sprintf("Expense with ID %d deleted successfully", created.ID),
		decode[handler.MessageResponse](t, rec).Message)

	rec = s.do(t, http.MethodGet, "/all", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/delete/%d", created.ID), "", alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "EXPENSE_NOT_FOUND", decode[apperrors.ErrorResponse](t, rec).Code)
}

func TestRegister_Conflict(t *testing.T) {
	s := newTestServer(t, "production")

	rec := s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1","role":"ADMIN"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ADMIN", decode[map[string]interface{}](t, rec)["role"])

	rec = s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"other-secret"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USERNAME_TAKEN", decode[apperrors.ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/login", "", basic("alice", "secret1"))
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[handler.LoginResponse](t, rec)
	assert.Equal(t, "Login successful", login.Message)
	assert.Equal(t, "alice", login.User.Username)
	assert.Equal(t, model.RoleAdmin, login.User.Role)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t, "production")

	rec := s.do(t, http.MethodPost, "/register", `{"username":"al","password":"123","role":"ROOT"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[apperrors.ErrorResponse](t, rec)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	assert.Len(t, resp.Details, 3)

	rec = s.do(t, http.MethodPost, "/register", `{"username":`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp = decode[apperrors.ErrorResponse](t, rec)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "body", resp.Details[0].Field)
}

func TestUnauthorized_IdenticalForEveryReason(t *testing.T) {
	s := newTestServer(t, "production")
	rec := s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	headers := map[string]string{
		"missing":          "",
		"wrong scheme":     "Bearer abc",
		"malformed":        "Basic ???",
		"unknown identity": basic("bob", "secret1"),
		"wrong secret":     basic("alice", "secret2"),
	}

	var bodies []string
	for name, header := range headers {
		rec := s.do(t, http.MethodGet, "/all", "", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		bodies = append(bodies, rec.Body.String())
	}
	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(bodies[0]), &resp))
	assert.Equal(t, "Invalid credentials", resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Code)
	assert.Empty(t, s.do(t, http.MethodGet, "/all", "", "").Header().Get("WWW-Authenticate"))
}

func TestAdd_AggregatesViolations(t *testing.T) {
	s := newTestServer(t, "production")
	s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, "")

	body := fmt.Sprintf(`{"description":"","category":%q,"amount":"1"}`, strings.Repeat("c", 60))
	rec := s.do(t, http.MethodPost, "/add", body, basic("alice", "secret1"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[apperrors.ErrorResponse](t, rec)
	fields := []string{}
	for _, v := range resp.Details {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"description", "category"}, fields)
}

func TestUnauthenticatedWriteIsRejectedBeforeValidation(t *testing.T) {
	s := newTestServer(t, "production")

	rec := s.do(t, http.MethodPost, "/add", `{}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestByMonth(t *testing.T) {
	s := newTestServer(t, "production")
	alice := basic("alice", "secret1")
	s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, "")

	var ids []int64
	for _, day := range []string{"2024-02-01", "2024-02-29", "2024-02-29", "2024-03-01", "2024-01-31"} {
		rec := s.do(t, http.MethodPost, "/add",
			fmt.Sprintf(`{"description":"d","category":"c","amount":"1","date":%q}`, day), alice)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode[model.Expense](t, rec).ID)
	}

	rec := s.do(t, http.MethodGet, "/by-month/2024-02", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []int64
	for _, e := range decode[[]model.Expense](t, rec) {
		got = append(got, e.ID)
	}
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, got)

	for _, bad := range []string{"2024-2", "24-02", "2024-13", "2024-00", "february"} {
		rec := s.do(t, http.MethodGet, "/by-month/"+bad, "", alice)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestUpdateExpense(t *testing.T) {
	s := newTestServer(t, "production")
	alice := basic("alice", "secret1")
	s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, "")

	rec := s.do(t, http.MethodPost, "/add", `{"description":"Coffee","category":"Food","amount":"4.50","date":"2024-05-03"}`, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[model.Expense](t, rec)

	body := fmt.Sprintf(`{"id":%d,"description":"Espresso","category":"Food","amount":"3.00","paymentMethod":"Cash","date":"1999-01-01"}`, created.ID)
	rec = s.do(t, http.MethodPut, "/updateExpense", body, alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Expense](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.OccurredOn, updated.OccurredOn)
	assert.Equal(t, "Espresso", updated.Description)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, "Cash", *updated.PaymentMethod)

	rec = s.do(t, http.MethodPut, "/updateExpense", `{"id":999,"description":"x","category":"y","amount":"1"}`, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/updateExpense", `{"description":"x","category":"y","amount":"1"}`, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete_InvalidID(t *testing.T) {
	s := newTestServer(t, "production")
	alice := basic("alice", "secret1")
	s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, "")

	for _, id := range []string{"0", "-1", "abc", "1.5"} {
		rec := s.do(t, http.MethodDelete, "/delete/"+id, "", alice)
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}

func TestMeAndWelcome(t *testing.T) {
	s := newTestServer(t, "production")
	s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret1"}`, "")

	rec := s.do(t, http.MethodGet, "/me", "", basic("alice", "secret1"))
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "alice", me["username"])
	assert.NotContains(t, me, "passwordHash")

	for _, header := range []string{"", basic("alice", "secret1"), basic("alice", "nope!!")} {
		rec := s.do(t, http.MethodGet, "/", "", header)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"welcome"}`, rec.Body.String())
	}
}

func TestNotFoundEchoesPath(t *testing.T) {
	s := newTestServer(t, "production")

	rec := s.do(t, http.MethodGet, "/nope/here", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[apperrors.ErrorResponse](t, rec)
	assert.Equal(t, "Endpoint not found", resp.Error)
	assert.Equal(t, "/nope/here", resp.Path)
}

func TestAPIDocsAndHealth(t *testing.T) {
	s := newTestServer(t, "production")

	rec := s.do(t, http.MethodGet, "/api-docs", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/by-month/{yearMonth}")

	rec = s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	s.ready.Store(false)
	rec = s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, "production")

	rec := s.do(t, http.MethodGet, "/", "", "")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestErrorHandler_InternalDetail(t *testing.T) {
	for env, want := range map[string]string{
		"production":  "Something went wrong",
		"development": "boom",
	} {
		e := echo.New()
		e.HTTPErrorHandler = ErrorHandler(env == "development")
		e.GET("/fail", func(c echo.Context) error { return errors.New("boom") })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decode[apperrors.ErrorResponse](t, rec)
		assert.Equal(t, "Internal server error", resp.Error)
		assert.Equal(t, want, resp.Message, env)
	}
}

func TestErrorHandler_Unavailable(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(false)
	e.GET("/slow", func(c echo.Context) error {
		return fmt.Errorf("list expenses: %w", apperrors.ErrUnavailable)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "UNAVAILABLE", decode[apperrors.ErrorResponse](t, rec).Code)
}
