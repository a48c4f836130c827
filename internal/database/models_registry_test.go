package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The registry must stay migratable as a whole; a model that breaks
// AutoMigrate breaks every test database in the repo.
func TestPersistentModels_Migrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	for _, table := range []string{
		"users", "categories", "tags", "threads", "posts", "post_versions",
		"thread_tags", "post_tags", "likes", "bookmarks", "flags",
		"subscriptions", "notifications",
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}
