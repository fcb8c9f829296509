package service

import (
	"context"
	"testing"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfFollowRejected(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewMembershipService(db)

	seedUser(t, db, 1, "u1")

	err := svc.Follow(ctx, 1, 1)
	assert.ErrorIs(t, err, apperr.InvalidOperation(""))
	err = svc.Unfollow(ctx, 1, 1)
	assert.ErrorIs(t, err, apperr.InvalidOperation(""))
}

func TestJoinUnknownCommunity(t *testing.T) {
	db := setupDB(t)
	svc := NewMembershipService(db)

	seedUser(t, db, 2, "u2")

	err := svc.Join(context.Background(), 999, 2)
	assert.ErrorIs(t, err, apperr.NotFound(""))
}

func TestIsMemberSources(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewMembershipService(db)

	seedUser(t, db, 1, "u1")
	seedCommunity(t, db, 10, 1, "c10")
	joinCommunity(t, db, 10, 2)
	grantRole(t, db, 10, 4, model.RoleModerator)

	// 创建者、成员行、授权记录，三种来源都算成员
	for _, uid := range []uint64{1, 2, 4} {
		ok, err := svc.IsMember(ctx, 10, uid)
		require.NoError(t, err)
		assert.True(t, ok, "user %d", uid)
	}

	ok, err := svc.IsMember(ctx, 10, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsMember(ctx, 10, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowRelationQueries(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewMembershipService(db)

	seedUser(t, db, 1, "u1")
	seedUser(t, db, 2, "u2")

	require.NoError(t, svc.Follow(ctx, 1, 2))

	ok, err := svc.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsFollowing(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
