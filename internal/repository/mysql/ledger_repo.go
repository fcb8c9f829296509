package mysql

import (
	"context"

	"trailhub/internal/model"

	"gorm.io/gorm"
)

// Counter 一个可调整的冗余计数列
type Counter struct {
	target any
	column string
}

var (
	CommunityMembers  = Counter{&model.Community{}, "total_members"}
	CommunityPosts    = Counter{&model.Community{}, "total_posts"}
	CommunityProducts = Counter{&model.Community{}, "total_products"}
	UserFollowers     = Counter{&model.User{}, "total_followers"}
	UserFollowing     = Counter{&model.User{}, "total_following"}
	UserCommunities   = Counter{&model.User{}, "total_communities"}
	ContentLikes      = Counter{&model.Content{}, "like_count"}
)

// CounterLedger 所有冗余计数的唯一修改入口。
// 调用方必须传入触发变更的那个事务句柄，计数随事务一起提交或回滚；
// 请求路径上禁止用 count(*) 重算，重算只属于离线对账。
type CounterLedger struct{}

func (l *CounterLedger) Adjust(tx *gorm.DB, c Counter, id uint64, delta int64) error {
	return tx.Model(c.target).
		Where("id = ?", id).
		UpdateColumn(c.column, gorm.Expr(c.column+" + ?", delta)).Error
}

// LedgerReconcilerRepo 离线对账查询，仅供后台 worker 使用
type LedgerReconcilerRepo struct {
	DB *gorm.DB
}

// UserPair 对账批次里的一行用户计数
type UserPair struct {
	ID               uint64
	TotalFollowers   int64
	TotalFollowing   int64
	TotalCommunities int64
}

// CommunityPair 对账批次里的一行社区计数
type CommunityPair struct {
	ID            uint64
	TotalMembers  int64
	TotalPosts    int64
	TotalProducts int64
}

func (r *LedgerReconcilerRepo) ListUsers(ctx context.Context, batchSize int, lastID uint64) ([]UserPair, uint64, error) {
	var list []UserPair
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "total_followers", "total_following", "total_communities").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

func (r *LedgerReconcilerRepo) ListCommunities(ctx context.Context, batchSize int, lastID uint64) ([]CommunityPair, uint64, error) {
	var list []CommunityPair
	if err := r.DB.WithContext(ctx).Model(&model.Community{}).
		Select("id", "total_members", "total_posts", "total_products").
		Where("id > ? AND is_deleted = ?", lastID, false).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealUserCounts 从关系表重算一个用户的真实计数
func (r *LedgerReconcilerRepo) RealUserCounts(ctx context.Context, userID uint64) (followers, following, communities int64, err error) {
	db := r.DB.WithContext(ctx)
	if err = db.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return
	}
	if err = db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return
	}
	err = db.Model(&model.Membership{}).Where("user_id = ?", userID).Count(&communities).Error
	return
}

// RealCommunityCounts 从关系表重算一个社区的真实计数
func (r *LedgerReconcilerRepo) RealCommunityCounts(ctx context.Context, communityID uint64) (members, posts, products int64, err error) {
	db := r.DB.WithContext(ctx)
	if err = db.Model(&model.Membership{}).Where("community_id = ?", communityID).Count(&members).Error; err != nil {
		return
	}
	if err = db.Model(&model.Content{}).
		Where("community_id = ? AND kind = ? AND is_deleted = ?", communityID, model.KindPost, false).
		Count(&posts).Error; err != nil {
		return
	}
	err = db.Model(&model.Content{}).
		Where("community_id = ? AND kind = ? AND is_deleted = ?", communityID, model.KindRoute, false).
		Count(&products).Error
	return
}

func (r *LedgerReconcilerRepo) FixUserCounts(ctx context.Context, userID uint64, followers, following, communities int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumns(map[string]any{
			"total_followers":   followers,
			"total_following":   following,
			"total_communities": communities,
		}).Error
}

func (r *LedgerReconcilerRepo) FixCommunityCounts(ctx context.Context, communityID uint64, members, posts, products int64) error {
	return r.DB.WithContext(ctx).Model(&model.Community{}).Where("id = ?", communityID).
		UpdateColumns(map[string]any{
			"total_members":  members,
			"total_posts":    posts,
			"total_products": products,
		}).Error
}
