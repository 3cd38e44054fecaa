package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"sheetops/internal/apperr"
	"sheetops/internal/respond"
)

// Recover turns a handler panic into a 500 ErrorBody. When the handler had
// already started its response only the log line is written.
// http.ErrAbortHandler is re-raised for net/http to handle.
func Recover(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{w: w, status: http.StatusOK}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				logger.Error().
					Str("rid", GetRequestID(r)).
					Str("path", r.URL.Path).
					Bool("response_started", rw.started).
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic")
				if rw.started {
					return
				}
				respond.Error(w, zerolog.Nop(), apperr.Internal(fmt.Errorf("panic: %v", rec)))
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
