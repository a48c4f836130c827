package service

import (
	"context"
	"testing"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadService_CreateThread_SlugAndViewCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	category := env.seedCategory(t, "General")

	thread, err := env.threads.CreateThread(ctx, CreateThreadInput{
		Title:      "Hello World",
		CategoryID: category.ID,
		AuthorID:   author.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", thread.Slug)
	assert.Equal(t, int64(0), thread.ViewCount)
}

func TestThreadService_CreateThread_InactiveCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	category := env.seedCategory(t, "Retired")
	require.NoError(t, env.categories.DeactivateCategory(ctx, category.ID))

	_, err := env.threads.CreateThread(ctx, CreateThreadInput{
		Title:      "Hello",
		CategoryID: category.ID,
		AuthorID:   author.ID,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestThreadService_CreateThread_BannedAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	moderator := env.seedUser(t, "mod", models.RoleModerator)
	category := env.seedCategory(t, "General")

	require.NoError(t, env.users.BanUser(ctx, BanUserInput{
		UserID:      author.ID,
		ModeratorID: moderator.ID,
		Reason:      "spam",
	}))

	_, err := env.threads.CreateThread(ctx, CreateThreadInput{
		Title:      "Hello",
		CategoryID: category.ID,
		AuthorID:   author.ID,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeForbidden))
}

func TestThreadService_CreateThread_ExpiredBan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	moderator := env.seedUser(t, "mod", models.RoleModerator)
	category := env.seedCategory(t, "General")

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, env.users.BanUser(ctx, BanUserInput{
		UserID:      author.ID,
		ModeratorID: moderator.ID,
		Reason:      "cooling off",
		Expires:     &expired,
	}))

	_, err := env.threads.CreateThread(ctx, CreateThreadInput{
		Title:      "Back again",
		CategoryID: category.ID,
		AuthorID:   author.ID,
	})
	require.NoError(t, err)
}

func TestThreadService_CreateThread_UnknownTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	category := env.seedCategory(t, "General")

	_, err := env.threads.CreateThread(ctx, CreateThreadInput{
		Title:      "Hello",
		CategoryID: category.ID,
		AuthorID:   author.ID,
		TagIDs:     []string{"66666666-6666-6666-6666-666666666666"},
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	// The transaction never started: no thread row either.
	var count int64
	require.NoError(t, env.db.Model(&models.Thread{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestThreadService_CreateThread_FanOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	categoryFan := env.seedUser(t, "bob", models.RoleUser)
	tagFan := env.seedUser(t, "carol", models.RoleUser)
	category := env.seedCategory(t, "General")
	tag, err := env.tags.CreateTag(ctx, CreateTagInput{Name: "golang"})
	require.NoError(t, err)

	env.subscribe(t, categoryFan.ID, models.ResourceCategory, category.ID)
	env.subscribe(t, tagFan.ID, models.ResourceTag, tag.ID)
	// The author's own subscription must not notify them.
	env.subscribe(t, author.ID, models.ResourceCategory, category.ID)

	thread, err := env.threads.CreateThread(ctx, CreateThreadInput{
		Title:      "Generics in practice",
		CategoryID: category.ID,
		AuthorID:   author.ID,
		TagIDs:     []string{tag.ID},
	})
	require.NoError(t, err)

	forCategoryFan := env.notificationsFor(t, categoryFan.ID)
	require.Len(t, forCategoryFan, 1)
	assert.Equal(t, models.NotificationCategorySub, forCategoryFan[0].Type)
	assert.Equal(t, models.ResourceThread, forCategoryFan[0].ResourceType)
	assert.Equal(t, thread.ID, forCategoryFan[0].ResourceID)
	require.NotNil(t, forCategoryFan[0].ActorID)
	assert.Equal(t, author.ID, *forCategoryFan[0].ActorID)

	forTagFan := env.notificationsFor(t, tagFan.ID)
	require.Len(t, forTagFan, 1)
	assert.Equal(t, models.NotificationThreadSub, forTagFan[0].Type)

	assert.Empty(t, env.notificationsFor(t, author.ID))
	assert.Len(t, env.publisher.published, 2)
}

func TestThreadService_AddThreadTag_NotifiesTagSubscribers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	fan := env.seedUser(t, "bob", models.RoleUser)
	category := env.seedCategory(t, "General")
	thread := env.seedThread(t, "Hello", category.ID, author.ID)
	tag, err := env.tags.CreateTag(ctx, CreateTagInput{Name: "golang"})
	require.NoError(t, err)

	env.subscribe(t, fan.ID, models.ResourceTag, tag.ID)

	require.NoError(t, env.threads.AddThreadTag(ctx, thread.ID, tag.ID, author.ID))

	rows := env.notificationsFor(t, fan.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationThreadSub, rows[0].Type)
	assert.Equal(t, thread.ID, rows[0].ResourceID)

	// Re-attaching the same tag stays silent.
	require.NoError(t, env.threads.AddThreadTag(ctx, thread.ID, tag.ID, author.ID))
	assert.Len(t, env.notificationsFor(t, fan.ID), 1)
}

func TestThreadService_SoftDelete_Permissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	stranger := env.seedUser(t, "bob", models.RoleUser)
	moderator := env.seedUser(t, "mod", models.RoleModerator)
	category := env.seedCategory(t, "General")

	first := env.seedThread(t, "First", category.ID, author.ID)
	second := env.seedThread(t, "Second", category.ID, author.ID)

	err := env.threads.SoftDeleteThread(ctx, first.ID, stranger.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeForbidden))

	require.NoError(t, env.threads.SoftDeleteThread(ctx, first.ID, author.ID))
	require.NoError(t, env.threads.SoftDeleteThread(ctx, second.ID, moderator.ID))
}

func TestThreadService_GetThreadBySlug_CountsViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.seedUser(t, "alice", models.RoleUser)
	category := env.seedCategory(t, "General")
	env.seedThread(t, "Hello World", category.ID, author.ID)

	var last *models.Thread
	for i := 0; i < 3; i++ {
		thread, err := env.threads.GetThreadBySlug(ctx, "hello-world")
		require.NoError(t, err)
		last = thread
	}
	assert.Equal(t, int64(3), last.ViewCount)
}
