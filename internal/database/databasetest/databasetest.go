// Package databasetest opens throwaway in-memory SQLite databases for tests.
package databasetest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/donorhub/dhs/internal/config"
	"github.com/donorhub/dhs/internal/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New returns a migrated in-memory database private to the calling test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Init(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name),
		LogLevel: "silent",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
