package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
)

func newRequest(ctx context.Context, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_CreatePatient(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)

	c, rec := newRequest(context.Background(), http.MethodPost, `{
		"email": "ana@example.com", "password": "secret1",
		"full_name": "Ana Souza", "document_id": "12345678900", "birth_date": "1990-04-12"
	}`)
	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["birth_date"] != "1990-04-12" {
		t.Errorf("expected date serialized as YYYY-MM-DD, got %v", body["birth_date"])
	}
	if _, leaked := body["password"]; leaked {
		t.Error("password must not be echoed")
	}
}

func TestHandler_CreatePatient_BadDate(t *testing.T) {
	h := NewHandler(newFixture().svc)
	c, _ := newRequest(context.Background(), http.MethodPost, `{"email":"a@b.com","password":"secret1","birth_date":"12/04/1990"}`)

	err := h.CreatePatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_GetPatient_NotVisible(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	ana, _ := f.svc.CreatePatient(context.Background(), patientInput("ana@example.com", "111"))
	bia, _ := f.svc.CreatePatient(context.Background(), patientInput("bia@example.com", "222"))

	c, _ := newRequest(ctxAs(f.accountOf(t, bia.AccountID)), http.MethodGet, "")
	c.SetParamNames("id")
	c.SetParamValues(ana.ID.String())

	err := h.GetPatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_DeleteProfessional_NoContent(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	ctx := f.bootstrapAdmin(t)
	p, err := f.svc.CreateProfessional(ctx, ProfessionalInput{
		Credentials: Credentials{Email: strp("dr@example.com"), Password: strp("secret1")},
		FullName:    strp("Dr. Lima"), Specialty: strp("Cardiology"), LicenseNumber: strp("CRM-1"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	c, rec := newRequest(ctx, http.MethodDelete, "")
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	if err := h.DeleteProfessional(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_Routes(t *testing.T) {
	f := newFixture()
	e := echo.New()
	var caller *auth.Principal
	api := e.Group("/api/v1", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if caller != nil {
				c.SetRequest(c.Request().WithContext(auth.WithPrincipal(c.Request().Context(), caller)))
			}
			return next(c)
		}
	})
	NewHandler(f.svc).RegisterRoutes(api)

	tests := []struct {
		name   string
		caller *auth.Principal
		method string
		path   string
		status int
	}{
		{"anonymous list patients", nil, http.MethodGet, "/api/v1/patients", http.StatusUnauthorized},
		{"anonymous administrators", nil, http.MethodGet, "/api/v1/administrators", http.StatusUnauthorized},
		{"patient administrators", &auth.Principal{AccountID: uuid.New(), Role: auth.RolePatient}, http.MethodGet, "/api/v1/administrators", http.StatusForbidden},
		{"professional professionals", &auth.Principal{AccountID: uuid.New(), Role: auth.RoleProfessional}, http.MethodGet, "/api/v1/professionals", http.StatusForbidden},
		{"admin professionals", &auth.Principal{AccountID: uuid.New(), Role: auth.RoleAdmin}, http.MethodGet, "/api/v1/professionals", http.StatusOK},
		{"professional list patients", &auth.Principal{AccountID: uuid.New(), Role: auth.RoleProfessional}, http.MethodGet, "/api/v1/patients", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller = tt.caller
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}
