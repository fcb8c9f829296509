package model

import "time"

type User struct {
	ID               uint64 `gorm:"primaryKey"`
	Username         string `gorm:"uniqueIndex;size:32;not null"`
	Role             int    `gorm:"default:0"` // 平台级角色，与社区内角色无关
	TotalFollowers   int64  `gorm:"not null;default:0"`
	TotalFollowing   int64  `gorm:"not null;default:0"`
	TotalCommunities int64  `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
