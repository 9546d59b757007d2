package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-landmark-proxy/internal/model"
	"github.com/fakhrymubarak/weather-landmark-proxy/internal/observability"
)

// CorrelationIDHeader carries the per-request correlation id in and out.
const CorrelationIDHeader = "X-Correlation-ID"

type correlationKey struct{}

// CorrelationID reuses the inbound X-Correlation-ID or mints a new one.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corrID := r.Header.Get(CorrelationIDHeader)
		if corrID == "" {
			corrID = uuid.New().String()
		}
		w.Header().Set(CorrelationIDHeader, corrID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), correlationKey{}, corrID)))
	})
}

// GetCorrelationID returns the id stored by CorrelationID, or "".
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// RequestLogger logs one line per request through zap.
func RequestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &observability.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
			next.ServeHTTP(rw, r)

			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.Status,
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			}
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				fields = append(fields, "request_id", reqID)
			}
			if corrID := GetCorrelationID(r.Context()); corrID != "" {
				fields = append(fields, "correlation_id", corrID)
			}
			switch {
			case rw.Status >= http.StatusInternalServerError:
				logger.Errorw("request", fields...)
			case rw.Status >= http.StatusBadRequest:
				logger.Warnw("request", fields...)
			default:
				logger.Infow("request", fields...)
			}
		})
	}
}

// Recoverer turns a handler panic into a 500 with the weather error envelope.
func Recoverer(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Errorw("panic recovered", "panic", rec, "path", r.URL.Path, "stack", string(debug.Stack()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(model.MessageResponse{
					Message: fmt.Sprintf("An error occurred: %v", rec),
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
