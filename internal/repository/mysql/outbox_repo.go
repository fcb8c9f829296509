package mysql

import (
	"context"
	"encoding/json"
	"time"

	"trailhub/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// InsertTx 在调用方事务里插一条事件，随业务变更一起提交或回滚
func (r *OutboxRepository) InsertTx(tx *gorm.DB, event string, actorID, subjectID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"actor":      actorID,
		"subject":    subjectID,
	})
	ob := &model.EventOutbox{
		EventType: event,
		ActorID:   actorID,
		SubjectID: subjectID,
		Payload:   string(payload),
		Status:    0,
	}
	return tx.Create(ob).Error
}

// List 待投递事件批量查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.EventOutbox, error) {
	var list []model.EventOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败，记一次重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.EventOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.EventOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
