package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"clientportal/internal/middleware"
	"clientportal/internal/models"
	"clientportal/internal/tenants"
)

const testSecret = "test-secret"

func newSessionRouter(t *testing.T) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	reg := tenants.NewRegistry(
		models.TenantConfig{Key: "tlnconsultinggroup", PasswordHash: string(hash)},
		models.TenantConfig{Key: "acme"},
	)
	h := NewSessionHandler(reg, testSecret, time.Hour)
	r := chi.NewRouter()
	r.Post("/tenants/{clientKey}/session", h.CreateSession)
	r.With(middleware.SessionAuth(testSecret, reg)).Get("/tenants/{clientKey}/whoami", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"client_key": middleware.ClientKeyFromContext(r.Context())})
	})
	return r
}

func TestCreateSessionUnknownTenant(t *testing.T) {
	w := httptest.NewRecorder()
	newSessionRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tenants/nobody/session", strings.NewReader(`{}`)))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateSessionWrongPassword(t *testing.T) {
	for _, body := range []string{`{"password":"nope"}`, `{}`} {
		w := httptest.NewRecorder()
		newSessionRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tenants/tlnconsultinggroup/session", strings.NewReader(body)))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", body, w.Code)
		}
		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["error"] != "invalid_credentials" {
			t.Fatalf("unexpected body %v", resp)
		}
	}
}

func TestCreateSessionTokenOpensProtectedRoute(t *testing.T) {
	router := newSessionRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tenants/TLNConsultingGroup/session", strings.NewReader(`{"password":"s3cret"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var sess SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sess.ClientKey != "tlnconsultinggroup" || sess.Token == "" {
		t.Fatalf("unexpected session %+v", sess)
	}

	req := httptest.NewRequest(http.MethodGet, "/tenants/tlnconsultinggroup/whoami", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/tenants/tlnconsultinggroup/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestCreateSessionOpenTenant(t *testing.T) {
	w := httptest.NewRecorder()
	newSessionRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tenants/acme/session", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
