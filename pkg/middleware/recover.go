package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"court-booking/pkg/telemetry"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

// Recover turns a handler panic into a 500 and records it on the request span.
// http.ErrAbortHandler is re-raised so the server can drop the connection.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				panicErr := fmt.Errorf("panic: %v", rec)
				telemetry.SetSpanError(r.Context(), panicErr)

				logger.Error("PANIC recovered",
					zap.Error(panicErr),
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.String("trace_id", telemetry.GetTraceID(r.Context())),
					zap.Stack("stack"),
				)

				utils.ResponseInternalError(w, "Internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
