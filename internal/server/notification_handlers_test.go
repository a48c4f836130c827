package server

import (
	"net/http"
	"testing"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationFlow(t *testing.T) {
	app, _, db := newTestApp(t)
	author := seedUser(t, db, "alice", models.RoleUser)
	subscriber := seedUser(t, db, "bob", models.RoleUser)
	category := seedCategory(t, db, "General", "general")

	var thread models.Thread
	resp := doJSON(t, app, http.MethodPost, "/api/threads/", bearerToken(t, author.ID), map[string]interface{}{
		"title":       "Hello",
		"category_id": category.ID,
	}, &thread)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/subscriptions/", bearerToken(t, subscriber.ID), map[string]interface{}{
		"resource_type": models.ResourceThread,
		"resource_id":   thread.ID,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/posts/", bearerToken(t, author.ID), map[string]interface{}{
		"thread_id": thread.ID,
		"content":   "a reply",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var notifications []models.Notification
	resp = doJSON(t, app, http.MethodGet, "/api/notifications/?unread=true", bearerToken(t, subscriber.ID), nil, &notifications)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationReply, notifications[0].Type)
	assert.Equal(t, thread.ID, notifications[0].ResourceID)

	var count struct {
		Unread int64 `json:"unread"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", bearerToken(t, subscriber.ID), nil, &count)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), count.Unread)

	resp = doJSON(t, app, http.MethodPost, "/api/notifications/"+notifications[0].ID+"/read", bearerToken(t, subscriber.ID), nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", bearerToken(t, subscriber.ID), nil, &count)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), count.Unread)
}

func TestMarkNotificationRead_Unknown(t *testing.T) {
	app, _, db := newTestApp(t)
	user := seedUser(t, db, "alice", models.RoleUser)

	resp := doJSON(t, app, http.MethodPost,
		"/api/notifications/00000000-0000-0000-0000-000000000000/read", bearerToken(t, user.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
