package model

import "time"

type ContentStatus int8

const (
	StatusPending  ContentStatus = 0
	StatusApproved ContentStatus = 1
	StatusRejected ContentStatus = 2
)

func (s ContentStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

type ContentKind int8

const (
	KindPost  ContentKind = 0
	KindRoute ContentKind = 1
)

// Content 帖子和路线结构一致，统一走 pending -> approved/rejected 审核
type Content struct {
	ID             uint64        `gorm:"primaryKey;index:idx_comm_status_id,priority:3,sort:desc"`
	CommunityID    uint64        `gorm:"not null;index:idx_comm_status_id,priority:1"`
	AuthorID       uint64        `gorm:"not null;index:idx_author_id"`
	Kind           ContentKind   `gorm:"not null;default:0"`
	Title          string        `gorm:"size:200;not null"`
	Body           string        `gorm:"type:text"`
	Status         ContentStatus `gorm:"not null;default:0;index:idx_comm_status_id,priority:2"`
	OutsideVisible bool          `gorm:"not null;default:false"` // 是否对社区外可见
	PublishedAt    *time.Time    // 仅审核通过时写入
	LikeCount      int64         `gorm:"not null;default:0"`
	IsDeleted      bool          `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Content) TableName() string { return "contents" }

type ContentLike struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_content_like"`
	ContentID uint64 `gorm:"not null;index;uniqueIndex:uk_content_like"`
	CreatedAt time.Time
}

func (ContentLike) TableName() string { return "content_likes" }

type ContentSave struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_content_save"`
	ContentID uint64 `gorm:"not null;index;uniqueIndex:uk_content_save"`
	CreatedAt time.Time
}

func (ContentSave) TableName() string { return "content_saves" }
