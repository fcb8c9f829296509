package mysql

import (
	"context"
	"errors"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	DB     *gorm.DB
	Ledger *CounterLedger
	Outbox *OutboxRepository
}

// Follow 建边 + 双侧计数 + outbox，一个事务
func (r *FollowRepository) Follow(ctx context.Context, followerID, followingID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("already following")
			}
			return err
		}
		if err := r.adjustCounts(tx, followerID, followingID, +1); err != nil {
			return err
		}
		return r.Outbox.InsertTx(tx, "follow", followerID, followingID)
	})
}

// Unfollow 硬删边，对称回减
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followingID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("not following")
		}
		if err := r.adjustCounts(tx, followerID, followingID, -1); err != nil {
			return err
		}
		return r.Outbox.InsertTx(tx, "unfollow", followerID, followingID)
	})
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollowings 游标分页，多查一条探测下一页
func (r *FollowRepository) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("following_id = ?", userID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Follow
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (r *FollowRepository) adjustCounts(tx *gorm.DB, followerID, followingID uint64, delta int64) error {
	if err := r.Ledger.Adjust(tx, UserFollowing, followerID, delta); err != nil {
		return err
	}
	return r.Ledger.Adjust(tx, UserFollowers, followingID, delta)
}
