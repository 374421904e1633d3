package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/kardzapp/kardz-backend/pkg/enums"
	"github.com/kardzapp/kardz-backend/pkg/types"
)

func doWithRole(t *testing.T, mw func(http.Handler) http.Handler, role enums.UserRole) int {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req = req.WithContext(WithActor(req.Context(), types.Actor{ID: uuid.New(), Role: role}))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	return resp.Code
}

func TestRequireRoleAdminOnly(t *testing.T) {
	mw := RequireRole(enums.UserRoleAdmin, nil)

	if code := doWithRole(t, mw, enums.UserRoleAdmin); code != http.StatusOK {
		t.Fatalf("admin: expected 200 got %d", code)
	}
	if code := doWithRole(t, mw, enums.UserRoleManager); code != http.StatusForbidden {
		t.Fatalf("manager: expected 403 got %d", code)
	}
	if code := doWithRole(t, mw, enums.UserRoleUser); code != http.StatusForbidden {
		t.Fatalf("user: expected 403 got %d", code)
	}
}

func TestRequireRoleWithoutActor(t *testing.T) {
	mw := RequireRole(enums.UserRoleAdmin, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireManagement(t *testing.T) {
	mw := RequireManagement(nil)

	if code := doWithRole(t, mw, enums.UserRoleAdmin); code != http.StatusOK {
		t.Fatalf("admin: expected 200 got %d", code)
	}
	if code := doWithRole(t, mw, enums.UserRoleManager); code != http.StatusOK {
		t.Fatalf("manager: expected 200 got %d", code)
	}
	if code := doWithRole(t, mw, enums.UserRoleUser); code != http.StatusForbidden {
		t.Fatalf("user: expected 403 got %d", code)
	}
}
