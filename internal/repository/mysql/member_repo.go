package mysql

import (
	"context"
	"errors"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	DB     *gorm.DB
	Ledger *CounterLedger
}

// Join 成员行和计数一个事务落库；唯一键是并发仲裁，
// 两个同时 join 的请求只有一个能提交，另一个拿到冲突。
func (r *MembershipRepository) Join(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.Membership{
			CommunityID: communityID,
			UserID:      userID,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("already a member")
			}
			return err
		}
		if err := r.Ledger.Adjust(tx, CommunityMembers, communityID, +1); err != nil {
			return err
		}
		return r.Ledger.Adjust(tx, UserCommunities, userID, +1)
	})
}

// Leave 硬删除，RowsAffected 判断是否真的在社区里
func (r *MembershipRepository) Leave(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.Membership{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("not a member")
		}
		if err := r.Ledger.Adjust(tx, CommunityMembers, communityID, -1); err != nil {
			return err
		}
		return r.Ledger.Adjust(tx, UserCommunities, userID, -1)
	})
}

func (r *MembershipRepository) Exists(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Membership{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *MembershipRepository) ListMembers(ctx context.Context, communityID uint64, cursor uint64, limit int) ([]model.Membership, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Membership{}).
		Where("community_id = ?", communityID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Membership
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
