package service

import (
	"context"
	"testing"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 场景：owner U1 建社区，普通成员 U2 发帖进入待审，U1 审核通过后才公开
func TestMemberSubmissionGoesThroughModeration(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	moderation := NewModerationService(db)
	visibility := NewVisibilityService(db, nil)

	seedUser(t, db, 1, "u1")
	seedUser(t, db, 2, "u2")
	seedCommunity(t, db, 10, 1, "c10")
	joinCommunity(t, db, 10, 2)

	content, err := moderation.Create(ctx, 2, 10, model.KindPost, "trip report", "...", true)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, content.Status)
	assert.Nil(t, content.PublishedAt)

	// 待审内容不上首页
	home, _, err := visibility.HomeFeed(ctx, 0, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, home)

	// owner 在社区页能看到待审内容
	feed, _, err := visibility.CommunityFeed(ctx, 1, 10, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, model.StatusPending, feed[0].Status)

	// 审核通过后有发布时间，外部可见的进首页
	require.NoError(t, moderation.Approve(ctx, 1, content.ID))
	got, err := moderation.Get(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	require.NotNil(t, got.PublishedAt)

	home, _, err = visibility.HomeFeed(ctx, 0, 0, 20)
	require.NoError(t, err)
	assert.Len(t, home, 1)
}

func TestAdminTierSkipsModeration(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	moderation := NewModerationService(db)

	seedUser(t, db, 1, "u1")
	seedUser(t, db, 3, "u3")
	seedCommunity(t, db, 10, 1, "c10")
	grantRole(t, db, 10, 3, model.RoleAdmin)

	// admin 发布直接过审
	content, err := moderation.Create(ctx, 3, 10, model.KindPost, "announcement", "", false)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, content.Status)
	require.NotNil(t, content.PublishedAt)

	// 创建者也一样
	content, err = moderation.Create(ctx, 1, 10, model.KindRoute, "ridge loop", "", true)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, content.Status)
}

func TestApproveIsNotIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	moderation := NewModerationService(db)

	seedUser(t, db, 1, "u1")
	seedCommunity(t, db, 10, 1, "c10")
	joinCommunity(t, db, 10, 2)

	content, err := moderation.Create(ctx, 2, 10, model.KindPost, "p", "", false)
	require.NoError(t, err)

	require.NoError(t, moderation.Approve(ctx, 1, content.ID))
	err = moderation.Approve(ctx, 1, content.ID)
	assert.ErrorIs(t, err, apperr.NotFound(""))
	err = moderation.Reject(ctx, 1, content.ID)
	assert.ErrorIs(t, err, apperr.NotFound(""))
}

func TestModeratorCannotDecide(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	moderation := NewModerationService(db)

	seedUser(t, db, 1, "u1")
	seedCommunity(t, db, 10, 1, "c10")
	joinCommunity(t, db, 10, 2)
	grantRole(t, db, 10, 4, model.RoleModerator)

	content, err := moderation.Create(ctx, 2, 10, model.KindPost, "p", "", false)
	require.NoError(t, err)

	err = moderation.Approve(ctx, 4, content.ID)
	assert.ErrorIs(t, err, apperr.InsufficientRole(""))
}

// 撤权后下一次裁决就会被拒，没有缓存窗口
func TestRevokedAdminCannotApprove(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	moderation := NewModerationService(db)

	seedUser(t, db, 1, "u1")
	seedCommunity(t, db, 10, 1, "c10")
	joinCommunity(t, db, 10, 2)
	grantRole(t, db, 10, 3, model.RoleAdmin)

	content, err := moderation.Create(ctx, 2, 10, model.KindPost, "p", "", false)
	require.NoError(t, err)

	require.NoError(t, db.Where("community_id = ? AND user_id = ?", 10, 3).Delete(&model.RoleGrant{}).Error)

	err = moderation.Approve(ctx, 3, content.ID)
	assert.ErrorIs(t, err, apperr.InsufficientRole(""))
}

func TestDeleteRequiresOwnership(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	moderation := NewModerationService(db)

	seedUser(t, db, 1, "u1")
	seedCommunity(t, db, 10, 1, "c10")
	joinCommunity(t, db, 10, 2)
	joinCommunity(t, db, 10, 5)

	content, err := moderation.Create(ctx, 2, 10, model.KindPost, "p", "", false)
	require.NoError(t, err)

	err = moderation.Delete(ctx, 5, content.ID)
	assert.ErrorIs(t, err, apperr.InsufficientRole(""))

	require.NoError(t, moderation.Delete(ctx, 2, content.ID))
	_, err = moderation.Get(ctx, content.ID)
	assert.ErrorIs(t, err, apperr.NotFound(""))
}

func TestPendingQueueGated(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	moderation := NewModerationService(db)

	seedUser(t, db, 1, "u1")
	seedCommunity(t, db, 10, 1, "c10")
	joinCommunity(t, db, 10, 2)

	_, err := moderation.Create(ctx, 2, 10, model.KindPost, "p", "", false)
	require.NoError(t, err)

	list, _, err := moderation.PendingQueue(ctx, 1, 10, 0, 20)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, _, err = moderation.PendingQueue(ctx, 2, 10, 0, 20)
	assert.ErrorIs(t, err, apperr.InsufficientRole(""))
}
