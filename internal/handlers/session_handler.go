package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"clientportal/internal/middleware"
)

type CreateSessionRequest struct {
	Password string `json:"password" validate:"max=256"`
}

type SessionResponse struct {
	ClientKey string    `json:"client_key"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionHandler struct {
	tenants   TenantLookup
	secret    string
	ttl       time.Duration
	now       func() time.Time
	validator *validator.Validate
}

func NewSessionHandler(tenants TenantLookup, secret string, ttl time.Duration) *SessionHandler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionHandler{
		tenants:   tenants,
		secret:    secret,
		ttl:       ttl,
		now:       time.Now,
		validator: validator.New(),
	}
}

// CreateSession godoc
// @Tags Session
// @Summary Open a dashboard session for a client
// @Accept json
// @Produce json
// @Param clientKey path string true "Client key"
// @Param request body handlers.CreateSessionRequest true "Client password"
// @Success 200 {object} handlers.SessionResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{clientKey}/session [post]
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	key := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "clientKey")))
	tenant, err := h.tenants.Get(key)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "unknown client key")
		return
	}

	var req CreateSessionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if tenant.RequiresSession() {
		if req.Password == "" || bcrypt.CompareHashAndPassword([]byte(tenant.PasswordHash), []byte(req.Password)) != nil {
			writeJSONErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Incorrect password")
			return
		}
	}

	token, expires, err := middleware.IssueSessionToken(h.secret, tenant.Key, h.ttl, h.now())
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "session_error", "Failed to issue session")
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{ClientKey: tenant.Key, Token: token, ExpiresAt: expires})
}
