package model

import (
	"fmt"
	"time"
)

// Role 社区内角色等级，数值即为比较顺序
type Role int

const (
	RoleNone      Role = 0
	RoleModerator Role = 1
	RoleAdmin     Role = 2
	RoleOwner     Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	default:
		return "none"
	}
}

// AdminTier owner/admin 两档；moderator 不算
func (r Role) AdminTier() bool {
	return r >= RoleAdmin
}

func (r Role) Valid() bool {
	return r >= RoleModerator && r <= RoleOwner
}

// ParseRole 解析外部传入的角色名
func ParseRole(s string) (Role, error) {
	switch s {
	case "moderator":
		return RoleModerator, nil
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

// RoleGrant 显式授权记录；隐式的创建者-owner 不落表
type RoleGrant struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_role_grant"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_role_grant"`
	Role        Role   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RoleGrant) TableName() string { return "role_grants" }
