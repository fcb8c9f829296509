package model

import "time"

// Follow 有向关注边，取关即硬删除
type Follow struct {
	ID          uint64 `gorm:"primaryKey"`
	FollowerID  uint64 `gorm:"not null;index:idx_follower_id;uniqueIndex:uk_follow"`
	FollowingID uint64 `gorm:"not null;index:idx_following_id;uniqueIndex:uk_follow"`
	CreatedAt   time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// EventOutbox 事件外发表，由 relayer 异步投递到 kafka
type EventOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"` // follow / unfollow / content_approved / content_rejected
	ActorID   uint64 `gorm:"not null"`
	SubjectID uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EventOutbox) TableName() string { return "event_outbox" }
