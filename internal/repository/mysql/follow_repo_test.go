package mysql

import (
	"context"
	"testing"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFollowRepo(db *gorm.DB) *FollowRepository {
	return &FollowRepository{
		DB:     db,
		Ledger: &CounterLedger{},
		Outbox: &OutboxRepository{DB: db},
	}
}

func TestFollowAdjustsBothSides(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newFollowRepo(db)

	seedUser(t, db, 1, "u1")
	seedUser(t, db, 2, "u2")

	require.NoError(t, repo.Follow(ctx, 1, 2))
	assert.Equal(t, int64(1), userByID(t, db, 1).TotalFollowing)
	assert.Equal(t, int64(1), userByID(t, db, 2).TotalFollowers)

	// 事件随事务一起落了 outbox
	var events []model.EventOutbox
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "follow", events[0].EventType)
}

func TestFollowDuplicateEdge(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newFollowRepo(db)

	seedUser(t, db, 1, "u1")
	seedUser(t, db, 2, "u2")

	require.NoError(t, repo.Follow(ctx, 1, 2))
	err := repo.Follow(ctx, 1, 2)
	assert.ErrorIs(t, err, apperr.Conflict(""))
	assert.Equal(t, int64(1), userByID(t, db, 2).TotalFollowers)
}

func TestUnfollowRestoresCounts(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newFollowRepo(db)

	seedUser(t, db, 1, "u1")
	seedUser(t, db, 2, "u2")

	require.NoError(t, repo.Follow(ctx, 1, 2))
	require.NoError(t, repo.Unfollow(ctx, 1, 2))

	assert.Equal(t, int64(0), userByID(t, db, 1).TotalFollowing)
	assert.Equal(t, int64(0), userByID(t, db, 2).TotalFollowers)

	err := repo.Unfollow(ctx, 1, 2)
	assert.ErrorIs(t, err, apperr.NotFound(""))
}

func TestListFollowingsCursor(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newFollowRepo(db)

	seedUser(t, db, 1, "u1")
	for i := uint64(2); i <= 6; i++ {
		seedUser(t, db, i, usernames[i-2])
		require.NoError(t, repo.Follow(ctx, 1, i))
	}

	rows, next, err := repo.ListFollowings(ctx, 1, 0, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	require.NotZero(t, next)

	rows, next, err = repo.ListFollowings(ctx, 1, next, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Zero(t, next)
}

var usernames = []string{"a", "b", "c", "d", "e"}
