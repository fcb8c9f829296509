package service

import (
	"context"

	"trailhub/internal/apperr"
	"trailhub/internal/repository/mysql"
	"trailhub/internal/repository/redis"

	"gorm.io/gorm"
)

// EngagementCache 读侧标注缓存的最小契约。hit=false 表示缓存没有
// 这条内容的集合，要回源并用 Warm* 整集合回填。
type EngagementCache interface {
	AddLike(ctx context.Context, userID, contentID uint64) error
	RemoveLike(ctx context.Context, userID, contentID uint64) error
	AddSave(ctx context.Context, userID, contentID uint64) error
	RemoveSave(ctx context.Context, userID, contentID uint64) error
	IsLiked(ctx context.Context, userID, contentID uint64) (liked bool, hit bool)
	IsSaved(ctx context.Context, userID, contentID uint64) (saved bool, hit bool)
	WarmLikes(ctx context.Context, contentID uint64, userIDs []uint64) error
	WarmSaves(ctx context.Context, contentID uint64, userIDs []uint64) error
}

// EngagementService 点赞/收藏。MySQL 是权威，缓存尽力同步，失败忽略
type EngagementService struct {
	repo     *mysql.EngagementRepository
	contents *mysql.ContentRepository
	cache    EngagementCache // 可为 nil（测试环境）
}

func NewEngagementService(db *gorm.DB, cache *redis.EngagementCacheRepository) *EngagementService {
	ledger := &mysql.CounterLedger{}
	s := &EngagementService{
		repo:     &mysql.EngagementRepository{DB: db, Ledger: ledger},
		contents: &mysql.ContentRepository{DB: db, Ledger: ledger, Outbox: &mysql.OutboxRepository{DB: db}},
	}
	// 带类型的 nil 指针塞进接口就不再是 nil，这里拦住
	if cache != nil {
		s.cache = cache
	}
	return s
}

func (s *EngagementService) Like(ctx context.Context, userID, contentID uint64) error {
	if userID == 0 || contentID == 0 {
		return apperr.Validation("invalid id")
	}
	if _, err := s.contents.FindByID(ctx, contentID); err != nil {
		return err
	}
	if err := s.repo.Like(ctx, userID, contentID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.AddLike(ctx, userID, contentID)
	}
	return nil
}

func (s *EngagementService) Unlike(ctx context.Context, userID, contentID uint64) error {
	if userID == 0 || contentID == 0 {
		return apperr.Validation("invalid id")
	}
	if err := s.repo.Unlike(ctx, userID, contentID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.RemoveLike(ctx, userID, contentID)
	}
	return nil
}

func (s *EngagementService) SaveContent(ctx context.Context, userID, contentID uint64) error {
	if userID == 0 || contentID == 0 {
		return apperr.Validation("invalid id")
	}
	if _, err := s.contents.FindByID(ctx, contentID); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, userID, contentID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.AddSave(ctx, userID, contentID)
	}
	return nil
}

func (s *EngagementService) UnsaveContent(ctx context.Context, userID, contentID uint64) error {
	if userID == 0 || contentID == 0 {
		return apperr.Validation("invalid id")
	}
	if err := s.repo.Unsave(ctx, userID, contentID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.RemoveSave(ctx, userID, contentID)
	}
	return nil
}

// LikedSet 批量标注，先问缓存；未命中的回源 MySQL 并懒加载回填，
// 回填失败忽略，下一页再回源
func (s *EngagementService) LikedSet(ctx context.Context, userID uint64, contentIDs []uint64) (map[uint64]bool, error) {
	if s.cache == nil || userID == 0 {
		return s.repo.LikedSet(ctx, userID, contentIDs)
	}
	set := make(map[uint64]bool, len(contentIDs))
	misses := make([]uint64, 0, len(contentIDs))
	for _, id := range contentIDs {
		liked, hit := s.cache.IsLiked(ctx, userID, id)
		if !hit {
			misses = append(misses, id)
			continue
		}
		if liked {
			set[id] = true
		}
	}
	if len(misses) == 0 {
		return set, nil
	}
	fromDB, err := s.repo.LikedSet(ctx, userID, misses)
	if err != nil {
		return nil, err
	}
	for id, liked := range fromDB {
		if liked {
			set[id] = true
		}
	}
	for _, id := range misses {
		likers, err := s.repo.LikerIDs(ctx, id)
		if err != nil {
			continue
		}
		_ = s.cache.WarmLikes(ctx, id, likers)
	}
	return set, nil
}

func (s *EngagementService) SavedSet(ctx context.Context, userID uint64, contentIDs []uint64) (map[uint64]bool, error) {
	if s.cache == nil || userID == 0 {
		return s.repo.SavedSet(ctx, userID, contentIDs)
	}
	set := make(map[uint64]bool, len(contentIDs))
	misses := make([]uint64, 0, len(contentIDs))
	for _, id := range contentIDs {
		saved, hit := s.cache.IsSaved(ctx, userID, id)
		if !hit {
			misses = append(misses, id)
			continue
		}
		if saved {
			set[id] = true
		}
	}
	if len(misses) == 0 {
		return set, nil
	}
	fromDB, err := s.repo.SavedSet(ctx, userID, misses)
	if err != nil {
		return nil, err
	}
	for id, saved := range fromDB {
		if saved {
			set[id] = true
		}
	}
	for _, id := range misses {
		savers, err := s.repo.SaverIDs(ctx, id)
		if err != nil {
			continue
		}
		_ = s.cache.WarmSaves(ctx, id, savers)
	}
	return set, nil
}
