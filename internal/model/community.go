package model

import "time"

type Community struct {
	ID            uint64 `gorm:"primaryKey"`
	Name          string `gorm:"uniqueIndex;size:64;not null"`
	Description   string `gorm:"type:text"`
	CreatorID     uint64 `gorm:"not null;index"`
	TotalMembers  int64  `gorm:"not null;default:0"`
	TotalPosts    int64  `gorm:"not null;default:0"`
	TotalProducts int64  `gorm:"not null;default:0"`
	IsPremium     bool   `gorm:"not null;default:false"`
	IsDeleted     bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Membership 普通成员关系，硬删除；存在即为成员
type Membership struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_membership"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_membership"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
