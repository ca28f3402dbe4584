package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rocimuc/artist-vote/internal/utils"
)

func runRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec.Code
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role interface{}
		want int
	}{
		{"allowed role", utils.RoleArtist, http.StatusOK},
		{"disallowed role", utils.RoleAdmin, http.StatusForbidden},
		{"missing role", nil, http.StatusForbidden},
		{"non-string role", 42, http.StatusForbidden},
	}
	mw := RequireRole(utils.RoleArtist)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runRole(t, mw, tt.role); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	if got := runRole(t, RequireAdmin(), utils.RoleAdmin); got != http.StatusOK {
		t.Errorf("admin blocked: status = %d", got)
	}
	if got := runRole(t, RequireAdmin(), utils.RoleArtist); got != http.StatusForbidden {
		t.Errorf("artist allowed into admin routes: status = %d", got)
	}
}
