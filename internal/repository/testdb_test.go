package repository

import (
	"testing"

	"github.com/SelfhostedPro/foss.space/internal/database"
	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB creates an in-memory SQLite database with the full schema.
// MaxOpenConns(1) keeps the pool on a single connection so every query sees
// the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, handle string) *models.User {
	t.Helper()
	user := &models.User{
		Name:   handle,
		Email:  handle + "@example.com",
		Handle: handle,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestThread(t *testing.T, db *gorm.DB, title, slug, categoryID, authorID string) *models.Thread {
	t.Helper()
	thread := &models.Thread{
		Title:      title,
		Slug:       slug,
		CategoryID: categoryID,
		AuthorID:   authorID,
	}
	require.NoError(t, db.Create(thread).Error)
	return thread
}

func createTestPost(t *testing.T, db *gorm.DB, threadID, authorID, content string) *models.Post {
	t.Helper()
	post := &models.Post{ThreadID: threadID, AuthorID: authorID, Content: content}
	require.NoError(t, db.Create(post).Error)
	return post
}
