package mysql

import (
	"context"
	"errors"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"gorm.io/gorm"
)

type EngagementRepository struct {
	DB     *gorm.DB
	Ledger *CounterLedger
}

// Like 点赞行 + like_count 一个事务
func (r *EngagementRepository) Like(ctx context.Context, userID, contentID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.ContentLike{
			UserID:    userID,
			ContentID: contentID,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("already liked")
			}
			return err
		}
		return r.Ledger.Adjust(tx, ContentLikes, contentID, +1)
	})
}

func (r *EngagementRepository) Unlike(ctx context.Context, userID, contentID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND content_id = ?", userID, contentID).
			Delete(&model.ContentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("not liked")
		}
		return r.Ledger.Adjust(tx, ContentLikes, contentID, -1)
	})
}

// Save 收藏没有冗余计数，单行插入即可
func (r *EngagementRepository) Save(ctx context.Context, userID, contentID uint64) error {
	err := r.DB.WithContext(ctx).Create(&model.ContentSave{
		UserID:    userID,
		ContentID: contentID,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("already saved")
	}
	return err
}

func (r *EngagementRepository) Unsave(ctx context.Context, userID, contentID uint64) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Delete(&model.ContentSave{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("not saved")
	}
	return nil
}

// LikedSet 批量查某用户在一组内容上的点赞集合，供 feed 标注
func (r *EngagementRepository) LikedSet(ctx context.Context, userID uint64, contentIDs []uint64) (map[uint64]bool, error) {
	return r.markSet(ctx, &model.ContentLike{}, userID, contentIDs)
}

func (r *EngagementRepository) SavedSet(ctx context.Context, userID uint64, contentIDs []uint64) (map[uint64]bool, error) {
	return r.markSet(ctx, &model.ContentSave{}, userID, contentIDs)
}

// LikerIDs 一条内容的全部点赞用户，缓存未命中时整集合回填用
func (r *EngagementRepository) LikerIDs(ctx context.Context, contentID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.ContentLike{}).
		Where("content_id = ?", contentID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *EngagementRepository) SaverIDs(ctx context.Context, contentID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.ContentSave{}).
		Where("content_id = ?", contentID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *EngagementRepository) markSet(ctx context.Context, m any, userID uint64, contentIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(contentIDs))
	if userID == 0 || len(contentIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	if err := r.DB.WithContext(ctx).Model(m).
		Where("user_id = ? AND content_id IN ?", userID, contentIDs).
		Pluck("content_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
