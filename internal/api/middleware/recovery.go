package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/imf-ops/gadget-api/internal/api/types"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
	"github.com/imf-ops/gadget-api/pkg/logger"
)

// Recovery logs panics and returns 500 with a generic message.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.L().Error("panic recovered",
					zap.String("id", GetRequestID(r.Context())),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(types.APIResponse{
					Success: false,
					Error:   types.FromAppError(appErr.New(appErr.CodeInternal, "panic")),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
