package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /auth. loginGuard wraps the login endpoint, typically
// with a stricter rate limit than the rest of the API.
func (h *Handler) RegisterRoutes(api *echo.Group, loginGuard ...echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/login", h.Login, loginGuard...)
	g.POST("/logout", h.Logout, auth.RequireAuthenticated())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Rejected credentials are reported as 400 on this endpoint.
		var ae *apperr.Error
		if errors.As(err, &ae) && errors.Is(err, apperr.ErrAuthentication) {
			return echo.NewHTTPError(http.StatusBadRequest, ae.Message)
		}
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.svc.Revoke(c.Request().Context()); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "logged out"})
}
