package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext("/"))

	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := FromContext(newContext("/?limit=50&offset=10"))

	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContext_Clamping(t *testing.T) {
	tests := []struct {
		query  string
		limit  int
		offset int
	}{
		{"/?limit=500", MaxLimit, 0},
		{"/?limit=-3", DefaultLimit, 0},
		{"/?limit=abc&offset=xyz", DefaultLimit, 0},
		{"/?offset=-10", DefaultLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := FromContext(newContext(tt.query))
			if p.Limit != tt.limit || p.Offset != tt.offset {
				t.Errorf("expected (%d,%d), got (%d,%d)", tt.limit, tt.offset, p.Limit, p.Offset)
			}
		})
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse([]int{1, 2}, 5, Params{Limit: 2, Offset: 0})
	if !r.HasMore {
		t.Error("expected has_more with 5 total and first page of 2")
	}
	r = NewResponse([]int{5}, 5, Params{Limit: 2, Offset: 4})
	if r.HasMore {
		t.Error("expected no more results on last page")
	}
}

func TestResponse_WithLinks(t *testing.T) {
	c := newContext("/api/v1/appointments?limit=2&offset=2")
	r := NewResponse(nil, 10, Params{Limit: 2, Offset: 2}).WithLinks(c)

	if r.Next != "/api/v1/appointments?limit=2&offset=4" {
		t.Errorf("unexpected next link %q", r.Next)
	}
	if r.Previous != "/api/v1/appointments?limit=2&offset=0" {
		t.Errorf("unexpected previous link %q", r.Previous)
	}
}

func TestResponse_WithLinks_FirstAndLast(t *testing.T) {
	r := NewResponse(nil, 3, Params{Limit: 5, Offset: 0}).WithLinks(newContext("/api/v1/logs"))
	if r.Next != "" || r.Previous != "" {
		t.Errorf("expected no links on a single page, got next=%q previous=%q", r.Next, r.Previous)
	}
}

func TestParams_PreviousOffsetFloor(t *testing.T) {
	p := Params{Limit: 20, Offset: 5}
	if got := p.PreviousOffset(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if !p.HasPrevious() {
		t.Error("expected HasPrevious with positive offset")
	}
}

func TestResponse_HugeOffsetHasNoNext(t *testing.T) {
	c := newContext("/x?offset=9223372036854775800&limit=20")
	p := FromContext(c)
	if p.Offset != 9223372036854775800 {
		t.Fatalf("expected offset kept, got %d", p.Offset)
	}

	r := NewResponse(nil, 5, p).WithLinks(c)
	if r.HasMore {
		t.Error("expected has_more false past the last item")
	}
	if r.Next != "" {
		t.Errorf("expected no next link, got %q", r.Next)
	}
	if r.Previous != "/x?limit=20&offset=9223372036854775780" {
		t.Errorf("unexpected previous link %q", r.Previous)
	}
}
