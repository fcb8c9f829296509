package mysql

import (
	"testing"

	"trailhub/internal/model"

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

func seedCommunity(t *testing.T, db *gorm.DB, id, creatorID uint64, name string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Community{ID: id, Name: name, CreatorID: creatorID}).Error)
}

func communityByID(t *testing.T, db *gorm.DB, id uint64) model.Community {
	t.Helper()
	var c model.Community
	require.NoError(t, db.First(&c, id).Error)
	return c
}

func userByID(t *testing.T, db *gorm.DB, id uint64) model.User {
	t.Helper()
	var u model.User
	require.NoError(t, db.First(&u, id).Error)
	return u
}
