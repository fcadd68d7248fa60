package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// SecurityHeadersConfig controls the response hardening applied to every
// request.
type SecurityHeadersConfig struct {
	// HSTS sends Strict-Transport-Security. Only enable it where the API is
	// served over TLS, otherwise local clients pin a scheme they cannot use.
	HSTS       bool
	HSTSMaxAge time.Duration

	// NoStorePrefix marks the routes that return account, profile,
	// appointment or audit data. Their responses are never cached.
	NoStorePrefix string
}

// DefaultSecurityHeadersConfig enables HSTS only in production.
func DefaultSecurityHeadersConfig(production bool) SecurityHeadersConfig {
	return SecurityHeadersConfig{
		HSTS:          production,
		HSTSMaxAge:    365 * 24 * time.Hour,
		NoStorePrefix: "/api/",
	}
}

func SecurityHeaders(cfg SecurityHeadersConfig) echo.MiddlewareFunc {
	hsts := "max-age=" + strconv.FormatInt(int64(cfg.HSTSMaxAge/time.Second), 10) + "; includeSubDomains"

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Referrer-Policy", "no-referrer")

			if cfg.HSTS {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.NoStorePrefix != "" && strings.HasPrefix(c.Request().URL.Path, cfg.NoStorePrefix) {
				h.Set("Cache-Control", "no-store")
				h.Set("Pragma", "no-cache")
			}
			return next(c)
		}
	}
}
