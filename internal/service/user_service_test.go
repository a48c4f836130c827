package service

import (
	"context"
	"testing"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SyncUser_Upserts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := SyncUserInput{
		ID:     "99999999-9999-9999-9999-999999999999",
		Name:   "Alice",
		Email:  "alice@example.com",
		Handle: "alice",
	}
	user, err := env.users.SyncUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	// A later sign-in refreshes profile fields on the same row.
	in.Name = "Alice B"
	in.EmailVerified = true
	user, err = env.users.SyncUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", user.Name)
	assert.True(t, user.EmailVerified)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserService_BanUser_Permissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice", models.RoleUser)
	other := env.seedUser(t, "bob", models.RoleUser)
	moderator := env.seedUser(t, "mod", models.RoleModerator)

	err := env.users.BanUser(ctx, BanUserInput{UserID: other.ID, ModeratorID: user.ID, Reason: "nope"})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeForbidden))

	err = env.users.BanUser(ctx, BanUserInput{UserID: moderator.ID, ModeratorID: moderator.ID, Reason: "self"})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))

	require.NoError(t, env.users.BanUser(ctx, BanUserInput{UserID: user.ID, ModeratorID: moderator.ID, Reason: "spam"}))

	banned, err := env.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, banned.Banned)

	require.NoError(t, env.users.UnbanUser(ctx, moderator.ID, user.ID))
	unbanned, err := env.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, unbanned.Banned)
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice", models.RoleUser)
	bio := "I build forums."

	updated, err := env.users.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, "alice", updated.Handle)
}
