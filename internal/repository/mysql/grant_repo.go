package mysql

import (
	"context"
	"errors"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"gorm.io/gorm"
)

type RoleGrantRepository struct {
	DB *gorm.DB
}

// Find 查显式授权；没有返回 (nil, nil)
func (r *RoleGrantRepository) Find(ctx context.Context, communityID, userID uint64) (*model.RoleGrant, error) {
	var g model.RoleGrant
	err := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *RoleGrantRepository) Exists(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.RoleGrant{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// Create 重复授权直接冲突，改角色要走 Reassign。
// 给创建者发低于 owner 的授权，等于把隐式 owner 显式降级，
// 同样要先过一遍 owner 计数。
func (r *RoleGrantRepository) Create(ctx context.Context, g *model.RoleGrant) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if g.Role < model.RoleOwner {
			var community model.Community
			if err := tx.Select("id", "creator_id").First(&community, g.CommunityID).Error; err != nil {
				return err
			}
			if community.CreatorID == g.UserID {
				n, err := ownerRankCount(tx, g.CommunityID, g.UserID)
				if err != nil {
					return err
				}
				if n == 0 {
					return apperr.LastOwner("community would be left without an owner")
				}
			}
		}
		if err := tx.Create(g).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("grant already exists")
			}
			return err
		}
		return nil
	})
}

// Reassign 改一条已有授权的角色。
// 把 owner 降下来之前先数一遍 owner，降到 0 个就拒绝。
func (r *RoleGrantRepository) Reassign(ctx context.Context, communityID, userID uint64, newRole model.Role) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.RoleGrant
		err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).First(&g).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("grant not found")
		}
		if err != nil {
			return err
		}
		if g.Role == model.RoleOwner && newRole < model.RoleOwner {
			n, err := ownerRankCount(tx, communityID, userID)
			if err != nil {
				return err
			}
			if n == 0 {
				return apperr.LastOwner("community would be left without an owner")
			}
		}
		// 条件更新：角色在读取后被并发改过就不再匹配，当作已不存在
		res := tx.Model(&model.RoleGrant{}).
			Where("community_id = ? AND user_id = ? AND role = ?", communityID, userID, g.Role).
			Update("role", newRole)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("grant not found")
		}
		return nil
	})
}

// Revoke 删除授权，owner 同样受「最后一个 owner」保护。
// 创建者撤自己的显式 owner 授权不做特例：虽然删掉后会回落为
// 隐式 owner，这里仍按计数拒绝，owner 档的退出只有一条规则。
func (r *RoleGrantRepository) Revoke(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.RoleGrant
		err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).First(&g).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("grant not found")
		}
		if err != nil {
			return err
		}
		if g.Role == model.RoleOwner {
			n, err := ownerRankCount(tx, communityID, userID)
			if err != nil {
				return err
			}
			if n == 0 {
				return apperr.LastOwner("community would be left without an owner")
			}
		}
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.RoleGrant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("grant not found")
		}
		return nil
	})
}

func (r *RoleGrantRepository) ListByCommunity(ctx context.Context, communityID uint64) ([]model.RoleGrant, error) {
	var list []model.RoleGrant
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("role desc, id asc").
		Find(&list).Error
	return list, err
}

// ownerRankCount 数除 excludeUserID 以外还剩几个 owner 级主体。
// 显式 owner 授权之外，创建者没有任何授权记录时按隐式 owner 计入，
// 这样从未发过授权的社区也受「最后一个 owner」保护。
func ownerRankCount(tx *gorm.DB, communityID, excludeUserID uint64) (int64, error) {
	var n int64
	if err := tx.Model(&model.RoleGrant{}).
		Where("community_id = ? AND role = ? AND user_id <> ?", communityID, model.RoleOwner, excludeUserID).
		Count(&n).Error; err != nil {
		return 0, err
	}

	var community model.Community
	if err := tx.Select("id", "creator_id").First(&community, communityID).Error; err != nil {
		return 0, err
	}
	if community.CreatorID == excludeUserID {
		return n, nil
	}
	var granted int64
	if err := tx.Model(&model.RoleGrant{}).
		Where("community_id = ? AND user_id = ?", communityID, community.CreatorID).
		Count(&granted).Error; err != nil {
		return 0, err
	}
	if granted == 0 {
		n++
	}
	return n, nil
}
