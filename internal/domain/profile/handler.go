package profile

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/apperr"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
	"github.com/daniel-lgs/sistema-VidaPlus/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the three profile resources. signupGuard wraps the
// open patient registration endpoint.
func (h *Handler) RegisterRoutes(api *echo.Group, signupGuard ...echo.MiddlewareFunc) {
	authn := auth.RequireAuthenticated()

	// Patient self-registration is open; everything else needs a token.
	api.POST("/patients", h.CreatePatient, signupGuard...)
	api.GET("/patients", h.ListPatients, authn)
	api.GET("/patients/:id", h.GetPatient, authn)
	api.PUT("/patients/:id", h.ReplacePatient, authn)
	api.PATCH("/patients/:id", h.PatchPatient, authn)
	api.DELETE("/patients/:id", h.DeletePatient, authn)

	admins := api.Group("/administrators", auth.RequireRole(auth.RoleAdmin))
	admins.GET("", h.ListAdmins)
	admins.POST("", h.CreateAdmin)
	admins.GET("/:id", h.GetAdmin)
	admins.PUT("/:id", h.ReplaceAdmin)
	admins.PATCH("/:id", h.PatchAdmin)
	admins.DELETE("/:id", h.DeleteAdmin)

	profs := api.Group("/professionals", auth.RequireRole(auth.RoleAdmin))
	profs.GET("", h.ListProfessionals)
	profs.POST("", h.CreateProfessional)
	profs.GET("/:id", h.GetProfessional)
	profs.PUT("/:id", h.ReplaceProfessional)
	profs.PATCH("/:id", h.PatchProfessional)
	profs.DELETE("/:id", h.DeleteProfessional)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return echo.NewHTTPError(http.StatusBadRequest, he.Message)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// -- Patient Handlers --

func (h *Handler) CreatePatient(c echo.Context) error {
	var in PatientInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.svc.CreatePatient(c.Request().Context(), in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	if items == nil {
		items = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg).WithLinks(c))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ReplacePatient(c echo.Context) error { return h.updatePatient(c, false) }

func (h *Handler) PatchPatient(c echo.Context) error { return h.updatePatient(c, true) }

func (h *Handler) updatePatient(c echo.Context, partial bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in PatientInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.svc.UpdatePatient(c.Request().Context(), id, in, partial)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Admin Handlers --

func (h *Handler) CreateAdmin(c echo.Context) error {
	var in AdminInput
	if err := bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.CreateAdmin(c.Request().Context(), in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAdmins(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAdmins(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	if items == nil {
		items = []*Admin{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg).WithLinks(c))
}

func (h *Handler) GetAdmin(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := h.svc.GetAdmin(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ReplaceAdmin(c echo.Context) error { return h.updateAdmin(c, false) }

func (h *Handler) PatchAdmin(c echo.Context) error { return h.updateAdmin(c, true) }

func (h *Handler) updateAdmin(c echo.Context, partial bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in AdminInput
	if err := bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.UpdateAdmin(c.Request().Context(), id, in, partial)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAdmin(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAdmin(c.Request().Context(), id); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Professional Handlers --

func (h *Handler) CreateProfessional(c echo.Context) error {
	var in ProfessionalInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.svc.CreateProfessional(c.Request().Context(), in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListProfessionals(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListProfessionals(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	if items == nil {
		items = []*Professional{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg).WithLinks(c))
}

func (h *Handler) GetProfessional(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetProfessional(c.Request().Context(), id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ReplaceProfessional(c echo.Context) error { return h.updateProfessional(c, false) }

func (h *Handler) PatchProfessional(c echo.Context) error { return h.updateProfessional(c, true) }

func (h *Handler) updateProfessional(c echo.Context, partial bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in ProfessionalInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.svc.UpdateProfessional(c.Request().Context(), id, in, partial)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProfessional(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProfessional(c.Request().Context(), id); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
