package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"clientportal/internal/models"
	"clientportal/internal/tenants"
)

const testSecret = "test-secret"

func newRouter() http.Handler {
	reg := tenants.NewRegistry(
		models.TenantConfig{Key: "tln", PasswordHash: "$2a$10$placeholder"},
		models.TenantConfig{Key: "acme"},
	)
	r := chi.NewRouter()
	r.Route("/tenants/{clientKey}", func(r chi.Router) {
		r.Use(SessionAuth(testSecret, reg))
		r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(ClientKeyFromContext(r.Context())))
		})
	})
	return r
}

func do(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSessionAuthOpenTenant(t *testing.T) {
	rr := do(t, newRouter(), "/tenants/ACME/dashboard", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "acme" {
		t.Fatalf("expected 200 acme, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestSessionAuthUnknownTenant(t *testing.T) {
	rr := do(t, newRouter(), "/tenants/globex/dashboard", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSessionAuthRequiresToken(t *testing.T) {
	rr := do(t, newRouter(), "/tenants/tln/dashboard", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestSessionAuthAcceptsValidToken(t *testing.T) {
	token, exp, err := IssueSessionToken(testSecret, "TLN", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", exp)
	}
	rr := do(t, newRouter(), "/tenants/tln/dashboard", token)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSessionAuthRejectsOtherTenantsToken(t *testing.T) {
	token, _, _ := IssueSessionToken(testSecret, "acme", time.Hour, time.Now())
	rr := do(t, newRouter(), "/tenants/tln/dashboard", token)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestSessionAuthRejectsExpiredAndForeignTokens(t *testing.T) {
	expired, _, _ := IssueSessionToken(testSecret, "tln", time.Minute, time.Now().Add(-2*time.Hour))
	if rr := do(t, newRouter(), "/tenants/tln/dashboard", expired); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rr.Code)
	}

	foreign, _, _ := IssueSessionToken("other-secret", "tln", time.Hour, time.Now())
	if rr := do(t, newRouter(), "/tenants/tln/dashboard", foreign); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign token, got %d", rr.Code)
	}
}

func TestIssueSessionTokenNeedsSecret(t *testing.T) {
	if _, _, err := IssueSessionToken("", "tln", time.Hour, time.Now()); err == nil {
		t.Fatalf("expected error without secret")
	}
}
