package mysql

import (
	"context"
	"testing"

	"trailhub/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAndLeaveKeepCountersExact(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := &MembershipRepository{DB: db, Ledger: &CounterLedger{}}

	seedUser(t, db, 1, "u1")
	seedUser(t, db, 2, "u2")
	seedCommunity(t, db, 10, 1, "c10")

	require.NoError(t, repo.Join(ctx, 10, 2))
	assert.Equal(t, int64(1), communityByID(t, db, 10).TotalMembers)
	assert.Equal(t, int64(1), userByID(t, db, 2).TotalCommunities)

	require.NoError(t, repo.Leave(ctx, 10, 2))
	assert.Equal(t, int64(0), communityByID(t, db, 10).TotalMembers)
	assert.Equal(t, int64(0), userByID(t, db, 2).TotalCommunities)
}

func TestJoinTwiceConflictsAndCountsOnce(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := &MembershipRepository{DB: db, Ledger: &CounterLedger{}}

	seedUser(t, db, 2, "u2")
	seedCommunity(t, db, 10, 1, "c10")

	require.NoError(t, repo.Join(ctx, 10, 2))
	err := repo.Join(ctx, 10, 2)
	assert.ErrorIs(t, err, apperr.Conflict(""))

	// 失败的那次不能把计数带偏
	assert.Equal(t, int64(1), communityByID(t, db, 10).TotalMembers)
}

func TestLeaveWithoutMembership(t *testing.T) {
	db := setupDB(t)
	repo := &MembershipRepository{DB: db, Ledger: &CounterLedger{}}

	seedCommunity(t, db, 10, 1, "c10")

	err := repo.Leave(context.Background(), 10, 99)
	assert.ErrorIs(t, err, apperr.NotFound(""))
	assert.Equal(t, int64(0), communityByID(t, db, 10).TotalMembers)
}
