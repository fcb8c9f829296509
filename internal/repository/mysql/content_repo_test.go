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

func newContentRepo(db *gorm.DB) *ContentRepository {
	return &ContentRepository{
		DB:     db,
		Ledger: &CounterLedger{},
		Outbox: &OutboxRepository{DB: db},
	}
}

func TestCreateMovesCounterByKind(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newContentRepo(db)

	seedCommunity(t, db, 10, 1, "c10")

	require.NoError(t, repo.Create(ctx, &model.Content{CommunityID: 10, AuthorID: 2, Kind: model.KindPost, Title: "p"}))
	require.NoError(t, repo.Create(ctx, &model.Content{CommunityID: 10, AuthorID: 2, Kind: model.KindRoute, Title: "r"}))

	c := communityByID(t, db, 10)
	assert.Equal(t, int64(1), c.TotalPosts)
	assert.Equal(t, int64(1), c.TotalProducts)
}

func TestTransitionStampsPublicationDate(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newContentRepo(db)

	seedCommunity(t, db, 10, 1, "c10")
	content := &model.Content{CommunityID: 10, AuthorID: 2, Title: "p", Status: model.StatusPending}
	require.NoError(t, repo.Create(ctx, content))

	require.NoError(t, repo.Transition(ctx, content.ID, model.StatusApproved, 1))

	got, err := repo.FindByID(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	require.NotNil(t, got.PublishedAt)
}

func TestTransitionIsNotReenterable(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newContentRepo(db)

	seedCommunity(t, db, 10, 1, "c10")
	content := &model.Content{CommunityID: 10, AuthorID: 2, Title: "p", Status: model.StatusPending}
	require.NoError(t, repo.Create(ctx, content))
	require.NoError(t, repo.Transition(ctx, content.ID, model.StatusApproved, 1))

	first, err := repo.FindByID(ctx, content.ID)
	require.NoError(t, err)

	// 二次裁决不是幂等成功，而是前置条件已不成立
	err = repo.Transition(ctx, content.ID, model.StatusApproved, 1)
	assert.ErrorIs(t, err, apperr.NotFound(""))
	err = repo.Transition(ctx, content.ID, model.StatusRejected, 1)
	assert.ErrorIs(t, err, apperr.NotFound(""))

	// 发布时间没有被重写
	second, err := repo.FindByID(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, first.PublishedAt, second.PublishedAt)
}

func TestRejectedIsTerminal(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newContentRepo(db)

	seedCommunity(t, db, 10, 1, "c10")
	content := &model.Content{CommunityID: 10, AuthorID: 2, Title: "p", Status: model.StatusPending}
	require.NoError(t, repo.Create(ctx, content))
	require.NoError(t, repo.Transition(ctx, content.ID, model.StatusRejected, 1))

	got, err := repo.FindByID(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)
	assert.Nil(t, got.PublishedAt)

	err = repo.Transition(ctx, content.ID, model.StatusApproved, 1)
	assert.ErrorIs(t, err, apperr.NotFound(""))
}

func TestSoftDeleteReversesCounter(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newContentRepo(db)

	seedCommunity(t, db, 10, 1, "c10")
	content := &model.Content{CommunityID: 10, AuthorID: 2, Kind: model.KindPost, Title: "p"}
	require.NoError(t, repo.Create(ctx, content))
	require.Equal(t, int64(1), communityByID(t, db, 10).TotalPosts)

	require.NoError(t, repo.SoftDelete(ctx, content))
	assert.Equal(t, int64(0), communityByID(t, db, 10).TotalPosts)

	// 已删内容查不到也删不了
	_, err := repo.FindByID(ctx, content.ID)
	assert.ErrorIs(t, err, apperr.NotFound(""))
	err = repo.SoftDelete(ctx, content)
	assert.ErrorIs(t, err, apperr.NotFound(""))
}

func TestListFeedFilters(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := newContentRepo(db)

	seedCommunity(t, db, 10, 1, "c10")
	seedCommunity(t, db, 11, 1, "c11")

	approvedOutside := &model.Content{CommunityID: 10, AuthorID: 2, Title: "a", Status: model.StatusApproved, OutsideVisible: true}
	approvedInside := &model.Content{CommunityID: 10, AuthorID: 2, Title: "b", Status: model.StatusApproved}
	pending := &model.Content{CommunityID: 10, AuthorID: 2, Title: "c", Status: model.StatusPending}
	other := &model.Content{CommunityID: 11, AuthorID: 2, Title: "d", Status: model.StatusApproved, OutsideVisible: true}
	for _, c := range []*model.Content{approvedOutside, approvedInside, pending, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	// 全站：只有已过审且外部可见
	rows, _, err := repo.ListFeed(ctx, FeedQuery{
		Statuses:    []model.ContentStatus{model.StatusApproved},
		OutsideOnly: true,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// 社区内无状态过滤：三条全见
	rows, _, err = repo.ListFeed(ctx, FeedQuery{CommunityID: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// 社区内只看已过审
	rows, _, err = repo.ListFeed(ctx, FeedQuery{
		CommunityID: 10,
		Statuses:    []model.ContentStatus{model.StatusApproved},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, _, err = repo.ListPending(ctx, 10, 0, 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c", rows[0].Title)
}
