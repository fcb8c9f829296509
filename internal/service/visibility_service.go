package service

import (
	"context"
	"errors"

	"trailhub/internal/apperr"
	"trailhub/internal/model"
	"trailhub/internal/repository/mysql"
	"trailhub/internal/repository/redis"

	"gorm.io/gorm"
)

// FeedItem 输出行，带 actor 相关标注；计数是读取时点的值，
// 和并发写入之间不要求事务级精确。
type FeedItem struct {
	model.Content
	IsLiked  bool `json:"is_liked"`
	IsSaved  bool `json:"is_saved"`
	IsMember bool `json:"is_member"`
}

// VisibilityService 读侧过滤。过滤条件每次请求现算，不缓存角色。
type VisibilityService struct {
	roles      *RoleService
	membership *MembershipService
	contents   *mysql.ContentRepository
	engagement *EngagementService
}

func NewVisibilityService(db *gorm.DB, cache *redis.EngagementCacheRepository) *VisibilityService {
	ledger := &mysql.CounterLedger{}
	return &VisibilityService{
		roles:      NewRoleService(db),
		membership: NewMembershipService(db),
		contents:   &mysql.ContentRepository{DB: db, Ledger: ledger, Outbox: &mysql.OutboxRepository{DB: db}},
		engagement: NewEngagementService(db, cache),
	}
}

// ComputeHomeFilter 全站首页：只看已过审且允许外部可见的内容，和 actor 无关
func (s *VisibilityService) ComputeHomeFilter() mysql.FeedQuery {
	return mysql.FeedQuery{
		Statuses:    []model.ContentStatus{model.StatusApproved},
		OutsideOnly: true,
	}
}

// ComputeCommunityFilter 社区页按 actor 分三档：
// 有角色（含 moderator）看全部状态用于审核；普通成员看全部已过审；
// 非成员和匿名只看已过审且外部可见。
func (s *VisibilityService) ComputeCommunityFilter(ctx context.Context, communityID, actorID uint64) (mysql.FeedQuery, error) {
	role, err := s.roles.Resolve(ctx, communityID, actorID)
	if err != nil {
		return mysql.FeedQuery{}, err
	}
	q := mysql.FeedQuery{CommunityID: communityID}
	if role != model.RoleNone {
		return q, nil
	}
	q.Statuses = []model.ContentStatus{model.StatusApproved}
	member, err := s.membership.IsMember(ctx, communityID, actorID)
	if err != nil {
		return mysql.FeedQuery{}, err
	}
	if !member {
		q.OutsideOnly = true
	}
	return q, nil
}

func (s *VisibilityService) HomeFeed(ctx context.Context, actorID uint64, cursor uint64, limit int) ([]FeedItem, uint64, error) {
	q := s.ComputeHomeFilter()
	q.Cursor = cursor
	q.Limit = limit
	rows, next, err := s.contents.ListFeed(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.annotate(ctx, actorID, rows)
	return items, next, err
}

func (s *VisibilityService) CommunityFeed(ctx context.Context, actorID, communityID uint64, cursor uint64, limit int) ([]FeedItem, uint64, error) {
	q, err := s.ComputeCommunityFilter(ctx, communityID, actorID)
	if err != nil {
		return nil, 0, err
	}
	q.Cursor = cursor
	q.Limit = limit
	rows, next, err := s.contents.ListFeed(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.annotate(ctx, actorID, rows)
	return items, next, err
}

// annotate 批量补 is_liked/is_saved/is_member；匿名 actor 全为 false
func (s *VisibilityService) annotate(ctx context.Context, actorID uint64, rows []model.Content) ([]FeedItem, error) {
	items := make([]FeedItem, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}

	ids := make([]uint64, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.ID)
	}
	liked, err := s.engagement.LikedSet(ctx, actorID, ids)
	if err != nil {
		return nil, err
	}
	saved, err := s.engagement.SavedSet(ctx, actorID, ids)
	if err != nil {
		return nil, err
	}

	// 同一页通常只跨少数社区，成员关系按社区去重查一次。
	// 社区被删时内容可能还在首页存活，NotFound 按非成员标注，
	// 其余错误照常上抛。
	memberOf := make(map[uint64]bool)
	if actorID != 0 {
		for _, c := range rows {
			if _, ok := memberOf[c.CommunityID]; ok {
				continue
			}
			m, err := s.membership.IsMember(ctx, c.CommunityID, actorID)
			if err != nil {
				if !errors.Is(err, apperr.NotFound("")) {
					return nil, err
				}
				m = false
			}
			memberOf[c.CommunityID] = m
		}
	}

	for _, c := range rows {
		items = append(items, FeedItem{
			Content:  c,
			IsLiked:  liked[c.ID],
			IsSaved:  saved[c.ID],
			IsMember: memberOf[c.CommunityID],
		})
	}
	return items, nil
}
