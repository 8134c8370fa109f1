// internal/config/config.go
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	LogLevel    string

	TenantsFile      string
	DefaultClientKey string

	JWTSecret  string
	SessionTTL time.Duration

	WebhookTimeout  time.Duration
	RefreshTimeout  time.Duration
	RefreshCooldown time.Duration
	SimulatedDelay  time.Duration

	// Hosts the public webhook proxy may forward to. Empty allows any host.
	ProxyAllowedHosts  []string
	CORSAllowedOrigins []string
}

func Load() *Config {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		host := getEnv("PSQL_HOST", "localhost")
		port := getEnv("PSQL_PORT", "5432")
		user := getEnv("PSQL_USER", "postgres")
		password := getEnv("PSQL_PASSWORD", "postgres")
		dbName := getEnv("PSQL_DB_NAME", "client_portal")

		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(user, password),
			Host:   host + ":" + port,
			Path:   dbName,
		}
		q := u.Query()
		q.Set("sslmode", getEnv("PSQL_SSLMODE", "disable"))
		u.RawQuery = q.Encode()
		databaseURL = u.String()
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: databaseURL,
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		TenantsFile:      getEnv("TENANTS_FILE", "config/tenants.json"),
		DefaultClientKey: getEnv("DEFAULT_CLIENT_KEY", "tlnconsultinggroup"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),

		WebhookTimeout:  getDuration("WEBHOOK_TIMEOUT", 15*time.Second),
		RefreshTimeout:  getDuration("REFRESH_TIMEOUT", 5500*time.Millisecond),
		RefreshCooldown: getDuration("REFRESH_COOLDOWN", 60*time.Second),
		SimulatedDelay:  getDuration("SIMULATED_DELAY", 800*time.Millisecond),

		ProxyAllowedHosts:  getList("PROXY_ALLOWED_HOSTS", nil),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("5s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
