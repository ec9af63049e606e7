package handler

import (
	"net/http/httptest"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"primetrade/internal/auth"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

// newJSONContext builds an echo context carrying a JSON body and, when
// userID is non-nil, the identity the JWT middleware would have attached.
func newJSONContext(e *echo.Echo, method, target, body string, userID *uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set(auth.ContextKey, &auth.Claims{UserID: *userID, Name: "Ann", Email: "a@x.com"})
	}
	return c, rec
}
