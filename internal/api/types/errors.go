package types

import (
	"errors"
	"net/http"

	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

const internalMessage = "internal server error"

// FromAppError converts err into the wire error. Internal and unknown errors
// get a generic message so wrapped causes never reach clients.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var e *appErr.AppError
	if !errors.As(err, &e) {
		return &APIError{Code: string(appErr.CodeInternal), Message: internalMessage}
	}
	switch e.Code {
	case appErr.CodeInternal, appErr.CodeUnknown:
		return &APIError{Code: string(appErr.CodeInternal), Message: internalMessage}
	}
	return &APIError{Code: string(e.Code), Message: e.Message, Fields: fieldErrors(e.Meta)}
}

// StatusFromError maps an error code to its HTTP status.
func StatusFromError(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid, appErr.CodeInvalidCredentials:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fieldErrors(meta map[string]any) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
