package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"clientportal/internal/models"
)

type ctxKey string

const CtxClientKey ctxKey = "client_key"

const sessionIssuer = "clientportal"

type TenantLookup interface {
	Get(clientKey string) (models.TenantConfig, error)
}

// SessionClaims identify a tenant session. Subject is the client key.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// IssueSessionToken signs an HS256 session token for clientKey valid for ttl.
func IssueSessionToken(secret, clientKey string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("session secret is not configured")
	}
	expires := now.Add(ttl).UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   strings.ToLower(clientKey),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// SessionAuth guards routes under /tenants/{clientKey}. Tenants without a
// password hash are open; the rest need a bearer token issued for that tenant.
func SessionAuth(secret string, tenants TenantLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "clientKey")))
			tenant, err := tenants.Get(clientKey)
			if err != nil {
				writeError(w, http.StatusNotFound, "not_found", "unknown client key")
				return
			}

			ctx := context.WithValue(r.Context(), CtxClientKey, tenant.Key)
			if !tenant.RequiresSession() {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header")
				return
			}

			claims := &SessionClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			},
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithIssuer(sessionIssuer),
				jwt.WithExpirationRequired(),
				jwt.WithLeeway(30*time.Second),
			)
			if err != nil || token == nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired session")
				return
			}
			if claims.Subject != tenant.Key {
				writeError(w, http.StatusForbidden, "forbidden", "session does not belong to this client")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientKeyFromContext returns the tenant key stored by SessionAuth.
func ClientKeyFromContext(ctx context.Context) string {
	s, _ := ctx.Value(CtxClientKey).(string)
	return s
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code, "message": message})
}
