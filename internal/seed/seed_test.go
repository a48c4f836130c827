package seed

import (
	"testing"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/database"
	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func TestSeed_PopulatesForum(t *testing.T) {
	db := newTestDB(t)

	err := Seed(db, Options{NumUsers: 5, NumThreads: 10, PostsPerThread: 3})
	require.NoError(t, err)

	var userCount, categoryCount, tagCount, threadCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	require.NoError(t, db.Model(&models.Thread{}).Count(&threadCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)

	assert.Equal(t, int64(5), userCount)
	assert.Equal(t, int64(len(categoryNames)+2), categoryCount)
	assert.Equal(t, int64(len(tagNames)), tagCount)
	assert.Equal(t, int64(10), threadCount)
	assert.GreaterOrEqual(t, postCount, threadCount)

	// The stable moderator account exists.
	var moderator models.User
	require.NoError(t, db.First(&moderator, "handle = ?", "mod").Error)
	assert.Equal(t, models.RoleModerator, moderator.Role)
}

func TestSeed_CleanRemovesPriorData(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumThreads: 2}))
	require.NoError(t, Seed(db, Options{NumUsers: 3, NumThreads: 2, Clean: true}))

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(3), userCount)
}

func TestFactory_PostBumpsThreadActivity(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)
	category, err := f.CreateCategory("General", nil)
	require.NoError(t, err)
	thread, err := f.CreateThread(user, category, 30)
	require.NoError(t, err)

	post, err := f.CreatePost(user, thread, nil)
	require.NoError(t, err)

	var reloaded models.Thread
	require.NoError(t, db.First(&reloaded, "id = ?", thread.ID).Error)
	assert.WithinDuration(t, post.CreatedAt, reloaded.LastActivityAt, time.Second)
}
