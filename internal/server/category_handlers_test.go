package server

import (
	"net/http"
	"testing"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory_Authorization(t *testing.T) {
	app, _, db := newTestApp(t)
	user := seedUser(t, db, "alice", models.RoleUser)
	moderator := seedUser(t, db, "mod", models.RoleModerator)

	body := map[string]interface{}{"name": "General Discussion"}

	resp := doJSON(t, app, http.MethodPost, "/api/categories/", "", body, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/categories/", bearerToken(t, user.ID), body, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var created models.Category
	resp = doJSON(t, app, http.MethodPost, "/api/categories/", bearerToken(t, moderator.ID), body, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "general-discussion", created.Slug)
}

func TestGetCategoryBySlug(t *testing.T) {
	app, _, db := newTestApp(t)
	seedCategory(t, db, "General", "general")

	var category models.Category
	resp := doJSON(t, app, http.MethodGet, "/api/categories/general", "", nil, &category)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "General", category.Name)

	resp = doJSON(t, app, http.MethodGet, "/api/categories/missing", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListCategories_WithStats(t *testing.T) {
	app, _, db := newTestApp(t)
	author := seedUser(t, db, "alice", models.RoleUser)
	category := seedCategory(t, db, "General", "general")

	thread := &models.Thread{Title: "Hello", Slug: "hello", CategoryID: category.ID, AuthorID: author.ID}
	require.NoError(t, db.Create(thread).Error)

	var categories []models.Category
	resp := doJSON(t, app, http.MethodGet, "/api/categories/?with_stats=true", "", nil, &categories)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(1), categories[0].ThreadCount)
}
