package service

import (
	"context"
	"time"

	"trailhub/internal/apperr"
	"trailhub/internal/model"
	"trailhub/internal/repository/mysql"

	"gorm.io/gorm"
)

// ModerationService pending -> approved/rejected 状态机。
// 终态不可逆也不可重入：对已裁决内容再次 approve/reject 一律 NotFound。
type ModerationService struct {
	contents    *mysql.ContentRepository
	communities *mysql.CommunityRepository
	access      *AccessService
}

func NewModerationService(db *gorm.DB) *ModerationService {
	ledger := &mysql.CounterLedger{}
	outbox := &mysql.OutboxRepository{DB: db}
	return &ModerationService{
		contents:    &mysql.ContentRepository{DB: db, Ledger: ledger, Outbox: outbox},
		communities: &mysql.CommunityRepository{DB: db, Ledger: ledger},
		access:      NewAccessService(db),
	}
}

// Create 过创作门禁后落库；owner/admin（含未被降级的创建者）直接过审
func (s *ModerationService) Create(ctx context.Context, authorID, communityID uint64, kind model.ContentKind, title, body string, outsideVisible bool) (*model.Content, error) {
	if title == "" {
		return nil, apperr.Validation("title required")
	}

	role, err := s.access.GateCreation(ctx, communityID, authorID)
	if err != nil {
		return nil, err
	}

	content := &model.Content{
		CommunityID:    communityID,
		AuthorID:       authorID,
		Kind:           kind,
		Title:          title,
		Body:           body,
		Status:         model.StatusPending,
		OutsideVisible: outsideVisible,
	}
	if role.AdminTier() {
		now := time.Now()
		content.Status = model.StatusApproved
		content.PublishedAt = &now
	}

	if err := s.contents.Create(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ModerationService) Approve(ctx context.Context, actorID, contentID uint64) error {
	return s.decide(ctx, actorID, contentID, model.StatusApproved)
}

func (s *ModerationService) Reject(ctx context.Context, actorID, contentID uint64) error {
	return s.decide(ctx, actorID, contentID, model.StatusRejected)
}

// decide 审核门禁在裁决前现算，刚被撤权的 admin 下一次调用就会被拒
func (s *ModerationService) decide(ctx context.Context, actorID, contentID uint64, to model.ContentStatus) error {
	content, err := s.contents.FindByID(ctx, contentID)
	if err != nil {
		return err
	}
	if _, err := s.access.GateManagement(ctx, content.CommunityID, actorID, model.RoleAdmin); err != nil {
		return err
	}
	return s.contents.Transition(ctx, contentID, to, actorID)
}

// Delete 作者本人或 owner/admin 可删，软删除
func (s *ModerationService) Delete(ctx context.Context, actorID, contentID uint64) error {
	content, err := s.contents.FindByID(ctx, contentID)
	if err != nil {
		return err
	}
	if err := s.access.GateOwnership(ctx, content.AuthorID, content.CommunityID, actorID); err != nil {
		return err
	}
	return s.contents.SoftDelete(ctx, content)
}

func (s *ModerationService) Get(ctx context.Context, contentID uint64) (*model.Content, error) {
	return s.contents.FindByID(ctx, contentID)
}

// PendingQueue 审核队列，admin 档起步
func (s *ModerationService) PendingQueue(ctx context.Context, actorID, communityID uint64, cursor uint64, limit int) ([]model.Content, uint64, error) {
	if _, err := s.access.GateManagement(ctx, communityID, actorID, model.RoleAdmin); err != nil {
		return nil, 0, err
	}
	return s.contents.ListPending(ctx, communityID, cursor, limit)
}
