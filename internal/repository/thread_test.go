package repository

import (
	"context"
	"testing"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadRepository_Create_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")

	first := &models.Thread{Title: "Hello World", Slug: "hello-world", CategoryID: category.ID, AuthorID: author.ID}
	require.NoError(t, repo.Create(ctx, first))

	dup := &models.Thread{Title: "Hello World Again", Slug: "hello-world", CategoryID: category.ID, AuthorID: author.ID}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict), "expected conflict, got %v", err)
}

func TestThreadRepository_GetBySlugIncrementingViews(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")
	createTestThread(t, db, "Hello World", "hello-world", category.ID, author.ID)

	// Each fetch applies a single atomic increment; N fetches mean exactly
	// N views regardless of interleaving.
	const reads = 5
	var last *models.Thread
	for i := 0; i < reads; i++ {
		thread, err := repo.GetBySlugIncrementingViews(ctx, "hello-world")
		require.NoError(t, err)
		last = thread
	}
	assert.Equal(t, int64(reads), last.ViewCount)
}

func TestThreadRepository_GetBySlugIncrementingViews_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)

	_, err := repo.GetBySlugIncrementingViews(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestThreadRepository_GetBySlugIncrementingViews_DeletedThread(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")
	thread := createTestThread(t, db, "Hello", "hello", category.ID, author.ID)
	require.NoError(t, repo.SoftDelete(ctx, thread.ID, author.ID))

	_, err := repo.GetBySlugIncrementingViews(ctx, "hello")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestThreadRepository_AddTag_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")
	thread := createTestThread(t, db, "Hello", "hello", category.ID, author.ID)
	tag := &models.Tag{Name: "go", Slug: "go"}
	require.NoError(t, db.Create(tag).Error)

	first, err := repo.AddTag(ctx, thread.ID, tag.ID)
	require.NoError(t, err)

	second, err := repo.AddTag(ctx, thread.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	var count int64
	require.NoError(t, db.Model(&models.ThreadTag{}).
		Where("thread_id = ? AND tag_id = ?", thread.ID, tag.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestThreadRepository_RemoveTag(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")
	thread := createTestThread(t, db, "Hello", "hello", category.ID, author.ID)
	tag := &models.Tag{Name: "go", Slug: "go"}
	require.NoError(t, db.Create(tag).Error)

	_, err := repo.AddTag(ctx, thread.ID, tag.ID)
	require.NoError(t, err)
	require.NoError(t, repo.RemoveTag(ctx, thread.ID, tag.ID))

	err = repo.RemoveTag(ctx, thread.ID, tag.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestThreadRepository_List_ExcludesDeletedAndOrders(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")

	plain := createTestThread(t, db, "Plain", "plain", category.ID, author.ID)
	pinned := createTestThread(t, db, "Pinned", "pinned", category.ID, author.ID)
	require.NoError(t, repo.SetPinned(ctx, pinned.ID, true))
	deleted := createTestThread(t, db, "Deleted", "deleted", category.ID, author.ID)
	require.NoError(t, repo.SoftDelete(ctx, deleted.ID, author.ID))

	threads, err := repo.ListByCategory(ctx, category.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, pinned.ID, threads[0].ID, "pinned thread sorts first")
	assert.Equal(t, plain.ID, threads[1].ID)
}

func TestThreadRepository_ListByTag(t *testing.T) {
	db := newTestDB(t)
	repo := NewThreadRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")
	tagged := createTestThread(t, db, "Tagged", "tagged", category.ID, author.ID)
	createTestThread(t, db, "Untagged", "untagged", category.ID, author.ID)

	tag := &models.Tag{Name: "go", Slug: "go"}
	require.NoError(t, db.Create(tag).Error)
	_, err := repo.AddTag(ctx, tagged.ID, tag.ID)
	require.NoError(t, err)

	threads, err := repo.ListByTag(ctx, tag.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, tagged.ID, threads[0].ID)
}
