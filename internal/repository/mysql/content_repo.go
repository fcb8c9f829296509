package mysql

import (
	"context"
	"errors"
	"time"

	"trailhub/internal/apperr"
	"trailhub/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB     *gorm.DB
	Ledger *CounterLedger
	Outbox *OutboxRepository
}

// FeedQuery 读侧过滤条件，由 VisibilityResolver 算出
type FeedQuery struct {
	CommunityID uint64 // 0 = 全站
	Statuses    []model.ContentStatus
	OutsideOnly bool
	Cursor      uint64
	Limit       int
}

func counterFor(kind model.ContentKind) Counter {
	if kind == model.KindRoute {
		return CommunityProducts
	}
	return CommunityPosts
}

// Create 内容行和社区计数一个事务落库
func (r *ContentRepository) Create(ctx context.Context, c *model.Content) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return r.Ledger.Adjust(tx, counterFor(c.Kind), c.CommunityID, +1)
	})
}

func (r *ContentRepository) FindByID(ctx context.Context, id uint64) (*model.Content, error) {
	var c model.Content
	err := r.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("content not found")
	}
	return &c, err
}

// Transition pending -> approved/rejected，一步条件更新。
// WHERE status=pending 就是并发仲裁：两个同时 approve 只有一个能匹配到行，
// 另一个 RowsAffected=0，当 NotFound 处理，终态不会被二次改写。
func (r *ContentRepository) Transition(ctx context.Context, id uint64, to model.ContentStatus, decidedBy uint64) error {
	event := "content_rejected"
	fields := map[string]any{"status": to}
	if to == model.StatusApproved {
		event = "content_approved"
		fields["published_at"] = time.Now()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Content{}).
			Where("id = ? AND status = ? AND is_deleted = ?", id, model.StatusPending, false).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("no pending content to decide")
		}
		return r.Outbox.InsertTx(tx, event, decidedBy, id)
	})
}

// SoftDelete 打标记并回退社区计数，保持账本和存活集合一致
func (r *ContentRepository) SoftDelete(ctx context.Context, c *model.Content) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Content{}).
			Where("id = ? AND is_deleted = ?", c.ID, false).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("content not found")
		}
		return r.Ledger.Adjust(tx, counterFor(c.Kind), c.CommunityID, -1)
	})
}

// ListFeed 按可见性过滤的游标分页
func (r *ContentRepository) ListFeed(ctx context.Context, q FeedQuery) ([]model.Content, uint64, error) {
	limit := q.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	db := r.DB.WithContext(ctx).Model(&model.Content{}).
		Where("is_deleted = ?", false)
	if q.CommunityID > 0 {
		db = db.Where("community_id = ?", q.CommunityID)
	}
	if len(q.Statuses) > 0 {
		db = db.Where("status IN ?", q.Statuses)
	}
	if q.OutsideOnly {
		db = db.Where("outside_visible = ?", true)
	}
	if q.Cursor > 0 {
		db = db.Where("id < ?", q.Cursor)
	}
	var rows []model.Content
	if err := db.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

// ListPending 审核队列
func (r *ContentRepository) ListPending(ctx context.Context, communityID uint64, cursor uint64, limit int) ([]model.Content, uint64, error) {
	return r.ListFeed(ctx, FeedQuery{
		CommunityID: communityID,
		Statuses:    []model.ContentStatus{model.StatusPending},
		Cursor:      cursor,
		Limit:       limit,
	})
}
