package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		caller  *Principal
		allowed []Role
		status  int
	}{
		{"anonymous", nil, []Role{RoleAdmin}, http.StatusUnauthorized},
		{"admin allowed", &Principal{Role: RoleAdmin}, []Role{RoleAdmin}, http.StatusOK},
		{"patient denied", &Principal{Role: RolePatient}, []Role{RoleAdmin}, http.StatusForbidden},
		{"one of many", &Principal{Role: RolePatient}, []Role{RoleAdmin, RolePatient}, http.StatusOK},
		{"admin is not a wildcard", &Principal{Role: RoleAdmin}, []Role{RoleProfessional}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.caller != nil {
				tt.caller.AccountID = uuid.New()
				req = req.WithContext(WithPrincipal(req.Context(), tt.caller))
			}
			c := e.NewContext(req, httptest.NewRecorder())

			err := RequireRole(tt.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)

			if tt.status == http.StatusOK {
				assert.NoError(t, err)
				return
			}
			he, ok := err.(*echo.HTTPError)
			if assert.True(t, ok, "expected echo.HTTPError, got %T", err) {
				assert.Equal(t, tt.status, he.Code)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(&Principal{Role: RoleAdmin}))
	assert.False(t, IsAdmin(&Principal{Role: RolePatient}))
	assert.False(t, IsAdmin(&Principal{Role: RoleProfessional}))
	assert.False(t, IsAdmin(nil))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RolePatient.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
