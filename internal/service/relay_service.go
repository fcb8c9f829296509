package service

import (
	"context"
	"time"

	"trailhub/internal/model"
	"trailhub/internal/repository/mysql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.EventOutbox) error

// OutboxRelayer 周期性把未投递事件推给 kafka
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
	log       *zap.Logger
}

// LedgerReconciler 离线对账：从关系表重算计数并修正偏差。
// 只在后台跑，请求路径永远不会走到这里。
type LedgerReconciler struct {
	repo      *mysql.LedgerReconcilerRepo
	batchSize int
	interval  time.Duration
	log       *zap.Logger
}

func NewOutboxRelayer(db *gorm.DB, sender Sender, log *zap.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		log:       log,
	}
}

func NewLedgerReconciler(db *gorm.DB, log *zap.Logger) *LedgerReconciler {
	return &LedgerReconciler{
		repo:      &mysql.LedgerReconcilerRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
		log:       log,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		r.log.Warn("outbox query failed", zap.Error(err))
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.log.Warn("outbox send failed", zap.Uint64("id", ob.ID), zap.Error(err))
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

func (r *LedgerReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.reconcileUsers(ctx)
			r.reconcileCommunities(ctx)
		}
	}
}

func (r *LedgerReconciler) reconcileUsers(ctx context.Context) {
	var lastID uint64
	for {
		list, next, err := r.repo.ListUsers(ctx, r.batchSize, lastID)
		if err != nil {
			r.log.Warn("reconcile user batch failed", zap.Error(err))
			return
		}
		if len(list) == 0 {
			return
		}
		for _, u := range list {
			followers, following, communities, err := r.repo.RealUserCounts(ctx, u.ID)
			if err != nil {
				continue
			}
			if followers == u.TotalFollowers && following == u.TotalFollowing && communities == u.TotalCommunities {
				continue
			}
			r.log.Info("user counter drift",
				zap.Uint64("user_id", u.ID),
				zap.Int64("followers", followers),
				zap.Int64("following", following),
				zap.Int64("communities", communities))
			_ = r.repo.FixUserCounts(ctx, u.ID, followers, following, communities)
		}
		lastID = next
	}
}

func (r *LedgerReconciler) reconcileCommunities(ctx context.Context) {
	var lastID uint64
	for {
		list, next, err := r.repo.ListCommunities(ctx, r.batchSize, lastID)
		if err != nil {
			r.log.Warn("reconcile community batch failed", zap.Error(err))
			return
		}
		if len(list) == 0 {
			return
		}
		for _, c := range list {
			members, posts, products, err := r.repo.RealCommunityCounts(ctx, c.ID)
			if err != nil {
				continue
			}
			if members == c.TotalMembers && posts == c.TotalPosts && products == c.TotalProducts {
				continue
			}
			r.log.Info("community counter drift",
				zap.Uint64("community_id", c.ID),
				zap.Int64("members", members),
				zap.Int64("posts", posts),
				zap.Int64("products", products))
			_ = r.repo.FixCommunityCounts(ctx, c.ID, members, posts, products)
		}
		lastID = next
	}
}
