package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	MarkSetTTL       = 24 * time.Hour
	LikeSetKeyPrefix = "like:set:content" // 某条内容已点赞的用户ID集合
	SaveSetKeyPrefix = "save:set:content" // 某条内容已收藏的用户ID集合
)

// EngagementCacheRepository 读侧标注缓存，永远不做权威数据；
// 写库成功后尽力更新，失败忽略，读不到就回源 MySQL。
type EngagementCacheRepository struct {
	markSetTTL time.Duration
}

func NewEngagementCacheRepository() *EngagementCacheRepository {
	return &EngagementCacheRepository{
		markSetTTL: MarkSetTTL,
	}
}

func (r *EngagementCacheRepository) likeSetKey(contentID uint64) string {
	return fmt.Sprintf("%s:%d", LikeSetKeyPrefix, contentID)
}

func (r *EngagementCacheRepository) saveSetKey(contentID uint64) string {
	return fmt.Sprintf("%s:%d", SaveSetKeyPrefix, contentID)
}

// AddLike 写路径：成功写MySQL后再调用
func (r *EngagementCacheRepository) AddLike(ctx context.Context, userID, contentID uint64) error {
	k := r.likeSetKey(contentID)
	if err := Client.SAdd(ctx, k, userID).Err(); err != nil {
		return err
	}
	return Client.Expire(ctx, k, r.markSetTTL).Err()
}

func (r *EngagementCacheRepository) RemoveLike(ctx context.Context, userID, contentID uint64) error {
	return Client.SRem(ctx, r.likeSetKey(contentID), userID).Err()
}

func (r *EngagementCacheRepository) AddSave(ctx context.Context, userID, contentID uint64) error {
	k := r.saveSetKey(contentID)
	if err := Client.SAdd(ctx, k, userID).Err(); err != nil {
		return err
	}
	return Client.Expire(ctx, k, r.markSetTTL).Err()
}

func (r *EngagementCacheRepository) RemoveSave(ctx context.Context, userID, contentID uint64) error {
	return Client.SRem(ctx, r.saveSetKey(contentID), userID).Err()
}

// WarmLikes 未命中时整集合回填。哨兵成员 0 不对应真实用户，
// 用来让空集合也占位，否则下一次读还是 miss。
func (r *EngagementCacheRepository) WarmLikes(ctx context.Context, contentID uint64, userIDs []uint64) error {
	return r.warm(ctx, r.likeSetKey(contentID), userIDs)
}

func (r *EngagementCacheRepository) WarmSaves(ctx context.Context, contentID uint64, userIDs []uint64) error {
	return r.warm(ctx, r.saveSetKey(contentID), userIDs)
}

func (r *EngagementCacheRepository) warm(ctx context.Context, key string, userIDs []uint64) error {
	members := make([]any, 0, len(userIDs)+1)
	members = append(members, 0)
	for _, id := range userIDs {
		members = append(members, id)
	}
	if err := Client.SAdd(ctx, key, members...).Err(); err != nil {
		return err
	}
	return Client.Expire(ctx, key, r.markSetTTL).Err()
}

// IsLiked 集合存在才作数；集合缺失无法区分「没点过」和「没缓存」，返回 miss
func (r *EngagementCacheRepository) IsLiked(ctx context.Context, userID, contentID uint64) (liked bool, hit bool) {
	k := r.likeSetKey(contentID)
	n, err := Client.Exists(ctx, k).Result()
	if err != nil || n == 0 {
		return false, false
	}
	ok, err := Client.SIsMember(ctx, k, userID).Result()
	if err != nil {
		return false, false
	}
	return ok, true
}

func (r *EngagementCacheRepository) IsSaved(ctx context.Context, userID, contentID uint64) (saved bool, hit bool) {
	k := r.saveSetKey(contentID)
	n, err := Client.Exists(ctx, k).Result()
	if err != nil || n == 0 {
		return false, false
	}
	ok, err := Client.SIsMember(ctx, k, userID).Result()
	if err != nil {
		return false, false
	}
	return ok, true
}
