package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/imf-ops/gadget-api/internal/api/middleware"
	"github.com/imf-ops/gadget-api/internal/api/types"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
	"github.com/imf-ops/gadget-api/pkg/logger"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = appErr.New(appErr.CodeInvalid, "invalid json")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorStatus(w, r, types.StatusFromError(err), err)
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, types.APIResponse{
		Success: false,
		Error:   types.FromAppError(err),
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

// decodeJSON reads a single JSON value from the body into dst. An empty body
// is allowed only when allowEmpty is set and leaves dst untouched. Anything
// after the value other than whitespace is rejected.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return errInvalidJSON
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}
