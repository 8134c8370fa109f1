package observability

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a key-value pair carried on the request context and attached to every log line.
type Field struct {
	Key   string
	Value interface{}
}

type contextKey string

const fieldsKey contextKey = "observability_fields"

const RequestIDHeader = "X-Request-ID"

// WithFields adds fields to the context. Later fields with the same key win.
func WithFields(ctx context.Context, fields ...Field) context.Context {
	existing := getFields(ctx)
	merged := make([]Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsKey, merged)
}

func getFields(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	if fields, ok := ctx.Value(fieldsKey).([]Field); ok {
		return fields
	}
	return nil
}

// RequestID returns the request id stored by Middleware, if any.
func RequestID(ctx context.Context) string {
	for _, f := range getFields(ctx) {
		if f.Key == "request_id" {
			if s, ok := f.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// Logger wraps zap and pulls structured fields from the context.
type Logger struct {
	zapLogger *zap.Logger
}

// NewLogger builds a production JSON logger. level is one of debug, info, warn, error.
func NewLogger(level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return &Logger{zapLogger: zapLogger}
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{zapLogger: zap.NewNop()}
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zapLogger: z}
}

func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) loggerFromContext(ctx context.Context) *zap.Logger {
	fields := getFields(ctx)
	if len(fields) == 0 {
		return l.zapLogger
	}
	seen := make(map[string]int, len(fields))
	zapFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if i, ok := seen[f.Key]; ok {
			zapFields[i] = zap.Any(f.Key, f.Value)
			continue
		}
		seen[f.Key] = len(zapFields)
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	return l.zapLogger.With(zapFields...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.loggerFromContext(ctx).Info(msg, fields...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.loggerFromContext(ctx).Warn(msg, fields...)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.loggerFromContext(ctx).Debug(msg, fields...)
}

// Error logs msg with err attached.
func (l *Logger) Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	l.loggerFromContext(ctx).Error(msg, append(fields, zap.Error(err))...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, err error) {
	l.loggerFromContext(ctx).Fatal(msg, zap.Error(err))
}

func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// Middleware tags each request with an id, logs it once it completes and
// turns panics into a 500.
func Middleware(l *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = fmt.Sprintf("req-%s", uuid.New().String())
				r.Header.Set(RequestIDHeader, requestID)
			}
			w.Header().Set(RequestIDHeader, requestID)

			ctx := WithFields(r.Context(),
				Field{"request_id", requestID},
				Field{"path", r.URL.Path},
				Field{"method", r.Method},
				Field{"client_ip", r.RemoteAddr},
			)
			r = r.WithContext(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				if rec := recover(); rec != nil {
					l.Error(ctx, "recovered from panic", fmt.Errorf("reason: %+v", rec))
					if ww.Status() == 0 {
						ww.WriteHeader(http.StatusInternalServerError)
					}
				}
				if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
					return
				}
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				l.Info(ctx, "request processed",
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("latency", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
