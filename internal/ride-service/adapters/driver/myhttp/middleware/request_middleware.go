package middleware

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"ride-booking/internal/mylogger"
	"ride-booking/internal/ride-service/adapters/driver/myhttp/handle"
	"ride-booking/internal/ride-service/core/myerrors"

	"github.com/google/uuid"
)

const RequestIdHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// Hijack is needed by the websocket upgrader.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	sr.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// RequestLogger tags every request with an id, logs its outcome and turns a
// panic into a 500.
func RequestLogger(log mylogger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := r.Header.Get(RequestIdHeader)
			if requestId == "" {
				requestId = uuid.NewString()
			}
			w.Header().Set(RequestIdHeader, requestId)

			reqLog := log.With("request_id", requestId)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			defer func() {
				if v := recover(); v != nil {
					reqLog.Action("panic").Error("handler panicked", fmt.Errorf("panic: %v", v))
					handle.JsonError(rec, http.StatusInternalServerError, myerrors.ErrDBConnClosedMsg)
				}
				reqLog.Action("http_request").Info("request served",
					"method", r.Method,
					"path", r.URL.Path,
					"status", rec.status,
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(rec, r.WithContext(handle.WithLogger(r.Context(), reqLog)))
		})
	}
}
