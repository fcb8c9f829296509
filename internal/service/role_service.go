package service

import (
	"context"

	"trailhub/internal/model"
	"trailhub/internal/repository/mysql"

	"gorm.io/gorm"
)

// RoleService 唯一知道「显式授权优先、创建者兜底为 owner」这条规则的地方。
// 不做任何缓存：撤权后下一次调用立刻生效。
type RoleService struct {
	grants      *mysql.RoleGrantRepository
	communities *mysql.CommunityRepository
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{
		grants:      &mysql.RoleGrantRepository{DB: db},
		communities: &mysql.CommunityRepository{DB: db, Ledger: &mysql.CounterLedger{}},
	}
}

// Resolve 先查显式授权；没有授权且是创建者则为隐式 owner；否则无角色。
// 社区不存在或已删除返回 NotFound。
func (s *RoleService) Resolve(ctx context.Context, communityID, userID uint64) (model.Role, error) {
	community, err := s.communities.FindByID(ctx, communityID)
	if err != nil {
		return model.RoleNone, err
	}
	if userID == 0 {
		return model.RoleNone, nil
	}
	g, err := s.grants.Find(ctx, communityID, userID)
	if err != nil {
		return model.RoleNone, err
	}
	if g != nil {
		return g.Role, nil
	}
	if community.CreatorID == userID {
		return model.RoleOwner, nil
	}
	return model.RoleNone, nil
}
