package repository

import (
	"context"
	"testing"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ListByThread_FiltersModerated(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")
	thread := createTestThread(t, db, "Hello", "hello", category.ID, author.ID)

	visible := createTestPost(t, db, thread.ID, author.ID, "visible")
	hidden := createTestPost(t, db, thread.ID, author.ID, "hidden")
	deleted := createTestPost(t, db, thread.ID, author.ID, "deleted")

	require.NoError(t, repo.SetHidden(ctx, hidden.ID, true, "off topic"))
	require.NoError(t, repo.SoftDelete(ctx, deleted.ID, author.ID))

	posts, err := repo.ListByThread(ctx, thread.ID, false)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, visible.ID, posts[0].ID)

	// Moderators see everything.
	all, err := repo.ListByThread(ctx, thread.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPostRepository_SoftDelete_RecordsActor(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	mod := createTestUser(t, db, "mod")
	category := createTestCategory(t, db, "General", "general")
	thread := createTestThread(t, db, "Hello", "hello", category.ID, author.ID)
	post := createTestPost(t, db, thread.ID, author.ID, "oops")

	require.NoError(t, repo.SoftDelete(ctx, post.ID, mod.ID))

	var stored models.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.True(t, stored.IsDeleted)
	require.NotNil(t, stored.DeletedAt)
	require.NotNil(t, stored.DeletedByID)
	assert.Equal(t, mod.ID, *stored.DeletedByID)

	err := repo.SoftDelete(ctx, post.ID, mod.ID)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestPostRepository_Versions_AscendingOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")
	thread := createTestThread(t, db, "Hello", "hello", category.ID, author.ID)
	post := createTestPost(t, db, thread.ID, author.ID, "v1")

	base := time.Now().Add(-time.Hour)
	for i, content := range []string{"v1", "v2", "v3"} {
		require.NoError(t, repo.CreateVersion(ctx, &models.PostVersion{
			PostID:     post.ID,
			Content:    content,
			EditedAt:   base.Add(time.Duration(i) * time.Minute),
			EditedByID: author.ID,
		}))
	}

	versions, err := repo.ListVersions(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "v1", versions[0].Content)
	assert.Equal(t, "v3", versions[2].Content)
}
