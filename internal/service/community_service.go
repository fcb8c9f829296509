package service

import (
	"context"

	"trailhub/internal/apperr"
	"trailhub/internal/model"
	"trailhub/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommunityService struct {
	repo   *mysql.CommunityRepository
	grants *mysql.RoleGrantRepository
	roles  *RoleService
	access *AccessService
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		repo:   &mysql.CommunityRepository{DB: db, Ledger: &mysql.CounterLedger{}},
		grants: &mysql.RoleGrantRepository{DB: db},
		roles:  NewRoleService(db),
		access: NewAccessService(db),
	}
}

func (s *CommunityService) Create(ctx context.Context, userID uint64, name, desc string, isPremium bool) (*model.Community, error) {
	if name == "" {
		return nil, apperr.Validation("community name required")
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		CreatorID:   userID,
		IsPremium:   isPremium,
	}

	if _, err := s.repo.Create(ctx, community); err != nil {
		return nil, err
	}

	return community, nil
}

// Delete 软删除，只有 owner 能做
func (s *CommunityService) Delete(ctx context.Context, actorID, communityID uint64) error {
	if _, err := s.access.GateManagement(ctx, communityID, actorID, model.RoleOwner); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, communityID)
}

func (s *CommunityService) List(ctx context.Context, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}

	offset := (page - 1) * size
	return s.repo.List(ctx, offset, size)
}

// ResolveRole 查询调用者在社区内的有效角色
func (s *CommunityService) ResolveRole(ctx context.Context, communityID, userID uint64) (model.Role, error) {
	return s.roles.Resolve(ctx, communityID, userID)
}

// Grant 给目标用户发一条显式授权
func (s *CommunityService) Grant(ctx context.Context, communityID, actorID, targetID uint64, role model.Role) error {
	if !role.Valid() {
		return apperr.InvalidOperation("invalid role target")
	}
	if targetID == 0 {
		return apperr.Validation("target user required")
	}
	if _, err := s.access.GateGrantHierarchy(ctx, communityID, actorID, targetID, role); err != nil {
		return err
	}
	return s.grants.Create(ctx, &model.RoleGrant{
		CommunityID: communityID,
		UserID:      targetID,
		Role:        role,
	})
}

// Reassign 改已有授权的角色；降 owner 受最后一个 owner 保护
func (s *CommunityService) Reassign(ctx context.Context, communityID, actorID, targetID uint64, role model.Role) error {
	if !role.Valid() {
		return apperr.InvalidOperation("invalid role target")
	}
	if _, err := s.access.GateGrantHierarchy(ctx, communityID, actorID, targetID, role); err != nil {
		return err
	}
	return s.grants.Reassign(ctx, communityID, targetID, role)
}

// Revoke 撤掉显式授权
func (s *CommunityService) Revoke(ctx context.Context, communityID, actorID, targetID uint64) error {
	if _, err := s.access.GateGrantHierarchy(ctx, communityID, actorID, targetID, model.RoleNone); err != nil {
		return err
	}
	return s.grants.Revoke(ctx, communityID, targetID)
}

func (s *CommunityService) ListGrants(ctx context.Context, communityID, actorID uint64) ([]model.RoleGrant, error) {
	if _, err := s.access.GateManagement(ctx, communityID, actorID, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.grants.ListByCommunity(ctx, communityID)
}
