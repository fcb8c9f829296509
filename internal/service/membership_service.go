package service

import (
	"context"

	"trailhub/internal/apperr"
	"trailhub/internal/model"
	"trailhub/internal/repository/mysql"

	"gorm.io/gorm"
)

// MembershipService 成员与关注这两张关系图，计数随关系同事务变更
type MembershipService struct {
	communities *mysql.CommunityRepository
	members     *mysql.MembershipRepository
	grants      *mysql.RoleGrantRepository
	follows     *mysql.FollowRepository
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	ledger := &mysql.CounterLedger{}
	outbox := &mysql.OutboxRepository{DB: db}
	return &MembershipService{
		communities: &mysql.CommunityRepository{DB: db, Ledger: ledger},
		members:     &mysql.MembershipRepository{DB: db, Ledger: ledger},
		grants:      &mysql.RoleGrantRepository{DB: db},
		follows:     &mysql.FollowRepository{DB: db, Ledger: ledger, Outbox: outbox},
	}
}

func (s *MembershipService) Join(ctx context.Context, communityID, userID uint64) error {
	if communityID == 0 || userID == 0 {
		return apperr.Validation("invalid id")
	}
	if _, err := s.communities.FindByID(ctx, communityID); err != nil {
		return err
	}
	return s.members.Join(ctx, communityID, userID)
}

func (s *MembershipService) Leave(ctx context.Context, communityID, userID uint64) error {
	if communityID == 0 || userID == 0 {
		return apperr.Validation("invalid id")
	}
	return s.members.Leave(ctx, communityID, userID)
}

// IsMember 创建者、成员行、任意一条授权，三者居其一即算成员
func (s *MembershipService) IsMember(ctx context.Context, communityID, userID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	community, err := s.communities.FindByID(ctx, communityID)
	if err != nil {
		return false, err
	}
	if community.CreatorID == userID {
		return true, nil
	}
	ok, err := s.members.Exists(ctx, communityID, userID)
	if err != nil || ok {
		return ok, err
	}
	return s.grants.Exists(ctx, communityID, userID)
}

func (s *MembershipService) Follow(ctx context.Context, followerID, followingID uint64) error {
	if followerID == 0 || followingID == 0 {
		return apperr.Validation("invalid user id")
	}
	if followerID == followingID {
		return apperr.InvalidOperation("cannot follow self")
	}
	return s.follows.Follow(ctx, followerID, followingID)
}

func (s *MembershipService) Unfollow(ctx context.Context, followerID, followingID uint64) error {
	if followerID == 0 || followingID == 0 {
		return apperr.Validation("invalid user id")
	}
	if followerID == followingID {
		return apperr.InvalidOperation("cannot unfollow self")
	}
	return s.follows.Unfollow(ctx, followerID, followingID)
}

func (s *MembershipService) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	if followerID == 0 || followingID == 0 {
		return false, apperr.Validation("invalid user id")
	}
	return s.follows.IsFollowing(ctx, followerID, followingID)
}

func (s *MembershipService) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return s.follows.ListFollowings(ctx, userID, cursor, limit)
}

func (s *MembershipService) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.Follow, uint64, error) {
	return s.follows.ListFollowers(ctx, userID, cursor, limit)
}
