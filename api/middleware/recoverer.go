package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/bouquet-backend/api/responses"
	pkgerrors "github.com/angelmondragon/bouquet-backend/pkg/errors"
	"github.com/angelmondragon/bouquet-backend/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope. A panic after the
// response has started, such as mid-way through an order history stream, is
// only logged since the status line is already on the wire.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				err := fmt.Errorf("panic: %v", v)
				ctx := r.Context()
				started := rec.status != 0
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":            fmt.Sprint(v),
						"method":           r.Method,
						"path":             r.URL.Path,
						"response_started": started,
						"idempotent":       r.Header.Get(idempotencyHeader) != "",
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				if started {
					return
				}
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
