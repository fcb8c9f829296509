package service

import (
	"context"

	"trailhub/internal/apperr"
	"trailhub/internal/model"
	"trailhub/internal/repository/mysql"

	"gorm.io/gorm"
)

// AccessService 所有授权判定的入口。每个 gate 都是一次性判定：
// 放行或带原因拒绝，从不重试；判不清一律拒绝。
type AccessService struct {
	roles   *RoleService
	members *mysql.MembershipRepository
	grants  *mysql.RoleGrantRepository
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{
		roles:   NewRoleService(db),
		members: &mysql.MembershipRepository{DB: db, Ledger: &mysql.CounterLedger{}},
		grants:  &mysql.RoleGrantRepository{DB: db},
	}
}

// GateManagement 管理类操作：角色等级不低于 required 才放行，放行时返回实际角色
func (s *AccessService) GateManagement(ctx context.Context, communityID, userID uint64, required model.Role) (model.Role, error) {
	role, err := s.roles.Resolve(ctx, communityID, userID)
	if err != nil {
		return model.RoleNone, err
	}
	if role == model.RoleNone || role < required {
		return model.RoleNone, apperr.InsufficientRole("requires " + required.String())
	}
	return role, nil
}

// GateCreation 发内容比管理松：创建者、普通成员、owner/admin 都可以
func (s *AccessService) GateCreation(ctx context.Context, communityID, userID uint64) (model.Role, error) {
	role, err := s.roles.Resolve(ctx, communityID, userID)
	if err != nil {
		return model.RoleNone, err
	}
	if role.AdminTier() {
		return role, nil
	}
	ok, err := s.members.Exists(ctx, communityID, userID)
	if err != nil {
		return model.RoleNone, err
	}
	if !ok {
		return model.RoleNone, apperr.InsufficientRole("not a member")
	}
	return role, nil
}

// GateOwnership 单条内容的编辑/删除：作者本人或 owner/admin
func (s *AccessService) GateOwnership(ctx context.Context, authorID, communityID, userID uint64) error {
	if userID != 0 && userID == authorID {
		return nil
	}
	role, err := s.roles.Resolve(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if !role.AdminTier() {
		return apperr.InsufficientRole("not author or admin")
	}
	return nil
}

// GateGrantHierarchy 授权操作的层级规则：
//   - 授予或改成 owner 只有 owner 能做；
//   - admin 不能动 owner 级的目标；
//   - 目标角色是否会留下零 owner 由仓储在同一事务里把关。
//
// newRole = RoleNone 表示撤销。
func (s *AccessService) GateGrantHierarchy(ctx context.Context, communityID, actorID, targetID uint64, newRole model.Role) (model.Role, error) {
	actorRole, err := s.GateManagement(ctx, communityID, actorID, model.RoleAdmin)
	if err != nil {
		return model.RoleNone, err
	}
	if newRole == model.RoleOwner && actorRole != model.RoleOwner {
		return model.RoleNone, apperr.InsufficientRole("only an owner may grant owner")
	}
	targetRole, err := s.roles.Resolve(ctx, communityID, targetID)
	if err != nil {
		return model.RoleNone, err
	}
	if targetRole == model.RoleOwner && actorRole != model.RoleOwner {
		return model.RoleNone, apperr.InsufficientRole("only an owner may demote an owner")
	}
	return actorRole, nil
}
