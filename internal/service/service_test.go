package service

import (
	"context"
	"testing"

	"trailhub/internal/model"
	"trailhub/internal/repository/mysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Membership{},
		&model.RoleGrant{},
		&model.Follow{},
		&model.Content{},
		&model.ContentLike{},
		&model.ContentSave{},
		&model.EventOutbox{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint64, name string) {
	t.Helper()
	require.NoError(t, db.Create(&model.User{ID: id, Username: name}).Error)
}

// seedCommunity 建社区并让创建者入会，和正式创建路径一致
func seedCommunity(t *testing.T, db *gorm.DB, id, creatorID uint64, name string) {
	t.Helper()
	repo := &mysql.CommunityRepository{DB: db, Ledger: &mysql.CounterLedger{}}
	c := &model.Community{ID: id, Name: name, CreatorID: creatorID}
	_, err := repo.Create(context.Background(), c)
	require.NoError(t, err)
}

func grantRole(t *testing.T, db *gorm.DB, communityID, userID uint64, role model.Role) {
	t.Helper()
	require.NoError(t, db.Create(&model.RoleGrant{CommunityID: communityID, UserID: userID, Role: role}).Error)
}

func joinCommunity(t *testing.T, db *gorm.DB, communityID, userID uint64) {
	t.Helper()
	repo := &mysql.MembershipRepository{DB: db, Ledger: &mysql.CounterLedger{}}
	require.NoError(t, repo.Join(context.Background(), communityID, userID))
}
