package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-secret-key-for-unit-tests-only")

type stubResolver struct {
	sessions map[uuid.UUID]*Principal
	err      error
}

func (s *stubResolver) ResolveSession(_ context.Context, sessionID, accountID uuid.UUID) (*Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.sessions[sessionID]
	if !ok || p.AccountID != accountID {
		return nil, ErrNoSession
	}
	return p, nil
}

func newSession(t *testing.T, issuer *TokenIssuer, role Role) (string, *Principal, *stubResolver) {
	t.Helper()
	p := &Principal{AccountID: uuid.New(), Email: "ana@example.com", Role: role}
	sid := uuid.New()
	tok, err := issuer.Issue(p.AccountID, sid, role)
	require.NoError(t, err)
	return tok, p, &stubResolver{sessions: map[uuid.UUID]*Principal{sid: p}}
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, header string) (*Principal, string, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *Principal
	var addr string
	err := mw(func(c echo.Context) error {
		got = PrincipalFromContext(c.Request().Context())
		addr = RemoteAddrFromContext(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})(c)
	return got, addr, err
}

func assertStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, code, he.Code)
}

func TestSessionMiddleware_AnonymousContinues(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	p, addr, err := runMiddleware(t, SessionMiddleware(issuer, &stubResolver{}), "")

	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, "10.1.2.3", addr)
}

func TestSessionMiddleware_ValidToken(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	tok, want, resolver := newSession(t, issuer, RolePatient)

	got, _, err := runMiddleware(t, SessionMiddleware(issuer, resolver), "Bearer "+tok)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.AccountID, got.AccountID)
	assert.Equal(t, RolePatient, got.Role)
}

func TestSessionMiddleware_InvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc123"},
		{"missing token", "Bearer"},
		{"empty value", "Bearer "},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runMiddleware(t, SessionMiddleware(issuer, &stubResolver{}), tt.header)
			assertStatus(t, err, http.StatusUnauthorized)
		})
	}
}

func TestSessionMiddleware_RevokedSession(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	tok, _, resolver := newSession(t, issuer, RoleAdmin)
	resolver.sessions = map[uuid.UUID]*Principal{}

	_, _, err := runMiddleware(t, SessionMiddleware(issuer, resolver), "Bearer "+tok)
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestSessionMiddleware_WrongKey(t *testing.T) {
	other := NewTokenIssuer([]byte("some-other-key"), time.Hour)
	tok, _, resolver := newSession(t, other, RoleAdmin)

	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	_, _, err := runMiddleware(t, SessionMiddleware(issuer, resolver), "Bearer "+tok)
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestSessionMiddleware_ResolverFailureIs500(t *testing.T) {
	issuer := NewTokenIssuer(testSigningKey, time.Hour)
	tok, _, resolver := newSession(t, issuer, RoleAdmin)
	resolver.err = errors.New("connection reset")

	_, _, err := runMiddleware(t, SessionMiddleware(issuer, resolver), "Bearer "+tok)
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestRequireAuthenticated(t *testing.T) {
	_, _, err := runMiddleware(t, RequireAuthenticated(), "")
	assertStatus(t, err, http.StatusUnauthorized)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), &Principal{AccountID: uuid.New(), Role: RolePatient}))
	c := e.NewContext(req, httptest.NewRecorder())
	err = RequireAuthenticated()(func(c echo.Context) error { return nil })(c)
	assert.NoError(t, err)
}
