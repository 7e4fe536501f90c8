package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerly/finance-api/internal/api/middleware"
	"github.com/ledgerly/finance-api/internal/core/domain"
)

var (
	alice = domain.Identity{UserID: "alice", Role: domain.RoleSalary, Email: "alice@example.com"}
	root  = domain.Identity{UserID: "root", Role: domain.RoleAdmin, Email: "admin@example.com"}
)

func ptr[T any](v T) *T { return &v }

// newJSONContext builds a context for a JSON request, optionally carrying an
// identity as if Auth had run.
func newJSONContext(method, target, body string, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return newContext(req, id)
}

func newContext(req *http.Request, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		c.Set(middleware.IdentityKey, *id)
	}
	return c, rec
}
