package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imf-ops/gadget-api/internal/api/types"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
	"github.com/imf-ops/gadget-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Set(zap.NewNop())
	os.Exit(m.Run())
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetUserID(r.Context()).String()))
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	uid := uuid.New()
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "good-token").Return(uid, nil)

	for _, header := range []string{"Bearer good-token", "bearer good-token", "BEARER   good-token"} {
		req := httptest.NewRequest(http.MethodGet, "/gadgets", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()

		Auth(v)(http.HandlerFunc(echoUser)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, header)
		assert.Equal(t, uid.String(), rr.Body.String())
	}
}

func TestAuthRejects(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "forged").Return(uuid.Nil, appErr.New(appErr.CodeUnauthorized, "invalid or expired token"))

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "Token forged", "Bearer forged"} {
		req := httptest.NewRequest(http.MethodGet, "/gadgets", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		called := false

		Auth(v)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })).ServeHTTP(rr, req)

		assert.False(t, called, header)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, header)

		var body types.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, "unauthorized", body.Error.Code)
	}
	v.AssertNumberOfCalls(t, "Verify", 1)
}

func TestGetUserIDOutsideGuard(t *testing.T) {
	assert.Equal(t, uuid.Nil, GetUserID(context.Background()))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "trace-42", seen)
}

func TestRecoveryReturnsJSON500(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("wire cut")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var body types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error.Message)
}

func TestLoggingRecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, 1, logs.Len())
	assert.EqualValues(t, http.StatusTeapot, logs.All()[0].ContextMap()["status"])
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/gadgets", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
