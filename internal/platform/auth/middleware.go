package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
)

// ErrNoSession is returned by a SessionResolver when the session named by a
// token no longer exists.
var ErrNoSession = errors.New("session not found")

// SessionResolver maps a verified token back to the account behind it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID, accountID uuid.UUID) (*Principal, error)
}

// SessionMiddleware authenticates bearer tokens against the session store.
// Requests without an Authorization header continue anonymously so that open
// endpoints (patient self-registration, login) share the same chain; a header
// that is present but malformed, expired or revoked is rejected with 401.
func SessionMiddleware(issuer *TokenIssuer, resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := WithRemoteAddr(c.Request().Context(), c.RealIP())

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := issuer.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			sessionID, err := claims.SessionID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			accountID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			p, err := resolver.ResolveSession(ctx, sessionID, accountID)
			if errors.Is(err, ErrNoSession) {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired or revoked")
			}
			if err != nil {
				return apperr.HTTP(err)
			}

			c.Set("account_id", p.AccountID.String())
			c.SetRequest(c.Request().WithContext(WithPrincipal(ctx, p)))
			return next(c)
		}
	}
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if PrincipalFromContext(c.Request().Context()) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
			}
			return next(c)
		}
	}
}
