package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/imf-ops/gadget-api/pkg/config"
	"github.com/imf-ops/gadget-api/pkg/logger"
)

func testConfig(dsn string) *config.Config {
	return &config.Config{
		AppEnv:           "test",
		HTTPAddr:         "127.0.0.1:0",
		BaseURL:          "http://localhost:3003",
		ShutdownTimeout:  5 * time.Second,
		DatabaseURL:      dsn,
		JWTSecret:        "test-secret",
		JWTIssuer:        "gadget-api",
		TokenTTL:         time.Hour,
		BcryptCost:       4,
		ConfirmationMode: config.ConfirmationVerified,
		ChallengeTTL:     time.Minute,
	}
}

func TestRunReturnsStartupErrors(t *testing.T) {
	logger.Set(zap.NewNop())

	err := run(context.Background(), testConfig("mysql://agent@localhost/imf"), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect database")

	cfg := testConfig(fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.NewString()))
	cfg.RedisAddr = "127.0.0.1:1"
	err = run(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis connection")
}

func TestRunStopsWhenContextIsCanceled(t *testing.T) {
	logger.Set(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, testConfig(fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.NewString())), zap.NewNop())
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
