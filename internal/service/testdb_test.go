package service

import (
	"context"
	"testing"

	"github.com/SelfhostedPro/foss.space/internal/database"
	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingPublisher captures post-commit publishes.
type recordingPublisher struct {
	published []models.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, n *models.Notification) {
	p.published = append(p.published, *n)
}

// testEnv wires every service against one in-memory SQLite database, the
// same way the server does against postgres.
type testEnv struct {
	db            *gorm.DB
	publisher     *recordingPublisher
	users         *UserService
	categories    *CategoryService
	tags          *TagService
	threads       *ThreadService
	posts         *PostService
	interactions  *InteractionService
	subscriptions *SubscriptionService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so the whole pool shares one in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	t.Cleanup(func() { _ = sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	postRepo := repository.NewPostRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	publisher := &recordingPublisher{}
	notifications := NewNotificationService(notificationRepo, subscriptionRepo, publisher)

	return &testEnv{
		db:            db,
		publisher:     publisher,
		users:         NewUserService(userRepo),
		categories:    NewCategoryService(categoryRepo),
		tags:          NewTagService(tagRepo),
		threads:       NewThreadService(db, threadRepo, categoryRepo, tagRepo, userRepo, notifications),
		posts:         NewPostService(db, postRepo, threadRepo, userRepo, notifications),
		interactions:  NewInteractionService(db, interactionRepo, postRepo, threadRepo, userRepo, notifications),
		subscriptions: NewSubscriptionService(subscriptionRepo, threadRepo, categoryRepo, tagRepo),
		notifications: notifications,
	}
}

func (e *testEnv) seedUser(t *testing.T, handle, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:   handle,
		Email:  handle + "@example.com",
		Handle: handle,
		Role:   role,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category, err := e.categories.CreateCategory(context.Background(), CreateCategoryInput{Name: name})
	require.NoError(t, err)
	return category
}

func (e *testEnv) seedThread(t *testing.T, title, categoryID, authorID string) *models.Thread {
	t.Helper()
	thread, err := e.threads.CreateThread(context.Background(), CreateThreadInput{
		Title:      title,
		CategoryID: categoryID,
		AuthorID:   authorID,
	})
	require.NoError(t, err)
	return thread
}

func (e *testEnv) subscribe(t *testing.T, userID, resourceType, resourceID string) {
	t.Helper()
	_, err := e.subscriptions.Subscribe(context.Background(), SubscribeInput{
		UserID:       userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NotifyInApp:  true,
	})
	require.NoError(t, err)
}

func (e *testEnv) notificationsFor(t *testing.T, userID string) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, e.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error)
	return rows
}
