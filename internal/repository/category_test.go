package repository

import (
	"context"
	"testing"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository_Create_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Category{Name: "General", Slug: "general", IsActive: true}))

	err := repo.Create(ctx, &models.Category{Name: "General Two", Slug: "general", IsActive: true})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
}

func TestCategoryRepository_List_ActiveOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	active := createTestCategory(t, db, "Active", "active")
	retired := createTestCategory(t, db, "Retired", "retired")
	require.NoError(t, repo.SetActive(ctx, retired.ID, false))

	categories, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, active.ID, categories[0].ID)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoryRepository_ListWithStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	category := createTestCategory(t, db, "General", "general")
	thread := createTestThread(t, db, "Hello", "hello", category.ID, author.ID)
	createTestPost(t, db, thread.ID, author.ID, "one")
	createTestPost(t, db, thread.ID, author.ID, "two")
	deleted := createTestPost(t, db, thread.ID, author.ID, "three")
	require.NoError(t, postRepo.SoftDelete(ctx, deleted.ID, author.ID))

	categories, err := repo.ListWithStats(ctx, true)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(1), categories[0].ThreadCount)
	assert.Equal(t, int64(2), categories[0].PostCount, "soft-deleted posts excluded from stats")
}
