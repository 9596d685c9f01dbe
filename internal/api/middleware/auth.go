package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/imf-ops/gadget-api/internal/api/types"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

type userKeyType string

const UserIDKey userKeyType = "user_id"

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}

const bearerPrefix = "bearer "

var errMissingToken = appErr.New(appErr.CodeUnauthorized, "missing bearer token")

// Auth requires a valid Bearer token and stores the user id in the request
// context. Anything else is answered with 401 before next runs.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if len(ah) < len(bearerPrefix) || !strings.EqualFold(ah[:len(bearerPrefix)], bearerPrefix) {
				unauthorized(w, errMissingToken)
				return
			}
			tokenStr := strings.TrimSpace(ah[len(bearerPrefix):])
			if tokenStr == "" {
				unauthorized(w, errMissingToken)
				return
			}

			uid, err := verifier.Verify(r.Context(), tokenStr)
			if err != nil {
				unauthorized(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
		})
	}
}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// GetUserID returns the authenticated user id, or uuid.Nil outside the guard.
func GetUserID(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func unauthorized(w http.ResponseWriter, err error) {
	apiErr := types.FromAppError(err)
	if apiErr.Code != string(appErr.CodeUnauthorized) {
		apiErr = types.FromAppError(errMissingToken)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(types.APIResponse{Success: false, Error: apiErr})
}
