package mysql

import (
	"context"
	"testing"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeUnlikeCounter(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := &EngagementRepository{DB: db, Ledger: &CounterLedger{}}

	seedCommunity(t, db, 10, 1, "c10")
	content := &model.Content{CommunityID: 10, AuthorID: 2, Title: "p"}
	require.NoError(t, newContentRepo(db).Create(ctx, content))

	require.NoError(t, repo.Like(ctx, 2, content.ID))
	err := repo.Like(ctx, 2, content.ID)
	assert.ErrorIs(t, err, apperr.Conflict(""))

	var c model.Content
	require.NoError(t, db.First(&c, content.ID).Error)
	assert.Equal(t, int64(1), c.LikeCount)

	require.NoError(t, repo.Unlike(ctx, 2, content.ID))
	err = repo.Unlike(ctx, 2, content.ID)
	assert.ErrorIs(t, err, apperr.NotFound(""))

	require.NoError(t, db.First(&c, content.ID).Error)
	assert.Equal(t, int64(0), c.LikeCount)
}

func TestLikedSetAnnotation(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := &EngagementRepository{DB: db, Ledger: &CounterLedger{}}

	seedCommunity(t, db, 10, 1, "c10")
	a := &model.Content{CommunityID: 10, AuthorID: 2, Title: "a"}
	b := &model.Content{CommunityID: 10, AuthorID: 2, Title: "b"}
	require.NoError(t, newContentRepo(db).Create(ctx, a))
	require.NoError(t, newContentRepo(db).Create(ctx, b))

	require.NoError(t, repo.Like(ctx, 2, a.ID))
	require.NoError(t, repo.Save(ctx, 2, b.ID))

	liked, err := repo.LikedSet(ctx, 2, []uint64{a.ID, b.ID})
	require.NoError(t, err)
	assert.True(t, liked[a.ID])
	assert.False(t, liked[b.ID])

	saved, err := repo.SavedSet(ctx, 2, []uint64{a.ID, b.ID})
	require.NoError(t, err)
	assert.True(t, saved[b.ID])

	// 匿名 actor 没有标注
	liked, err = repo.LikedSet(ctx, 0, []uint64{a.ID})
	require.NoError(t, err)
	assert.Empty(t, liked)
}
