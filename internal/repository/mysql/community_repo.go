package mysql

import (
	"context"
	"errors"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB     *gorm.DB
	Ledger *CounterLedger
}

// Create 建社区并让创建者成为首个成员，计数同事务
func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) (*model.Community, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("community name taken")
			}
			return err
		}
		if err := tx.Create(&model.Membership{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
		}).Error; err != nil {
			return err
		}
		if err := r.Ledger.Adjust(tx, CommunityMembers, c.ID, +1); err != nil {
			return err
		}
		return r.Ledger.Adjust(tx, UserCommunities, c.CreatorID, +1)
	})
	return c, err
}

// FindByID 只返回未删除的社区
func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("community not found")
	}
	return &community, err
}

func (r *CommunityRepository) List(ctx context.Context, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// SoftDelete 打标记，不动成员关系；重复删除返回 NotFound
func (r *CommunityRepository) SoftDelete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Model(&model.Community{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("community not found")
	}
	return nil
}
