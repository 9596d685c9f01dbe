// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/imf-ops/gadget-api/internal/repository"
	"github.com/imf-ops/gadget-api/pkg/database"
)

// NewDB returns a migrated, isolated in-memory SQLite database that is
// closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("sqlite:file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(context.Background(), dsn, database.Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
