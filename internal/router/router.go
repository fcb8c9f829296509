package router

import (
	"trailhub/internal/handler"
	"trailhub/internal/middleware"
	"trailhub/internal/repository/redis"
	"trailhub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	engagementCache := redis.NewEngagementCacheRepository()
	engagement := service.NewEngagementService(db, engagementCache)
	visibility := service.NewVisibilityService(db, engagementCache)

	community := handler.NewCommunityHandler(db)
	content := handler.NewContentHandler(db, engagement)
	feed := handler.NewFeedHandler(visibility)
	follow := handler.NewFollowHandler(db)

	// 全站首页和社区页匿名可看，可见范围由读侧过滤收紧
	r.GET("/api/feed", middleware.OptionalAuth(), feed.Home)
	r.GET("/api/community/:id/feed", middleware.OptionalAuth(), feed.Community)

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.GET("/list", community.List)
		communityGroup.POST("/:id/join", community.Join)
		communityGroup.POST("/:id/leave", community.Leave)
		communityGroup.DELETE("/:id", community.Delete)
		communityGroup.GET("/:id/role", community.MyRole)
		communityGroup.POST("/:id/role", community.GrantRole)
		communityGroup.DELETE("/:id/role/:userId", community.RevokeRole)
		communityGroup.GET("/:id/roles", community.ListGrants)
		communityGroup.GET("/:id/moderation", content.PendingQueue)
	}

	// 内容相关接口
	contentGroup := r.Group("/api/content")
	contentGroup.Use(middleware.AuthMiddleware())
	{
		contentGroup.POST("/create", content.Create)
		contentGroup.POST("/:id/approve", content.Approve)
		contentGroup.POST("/:id/reject", content.Reject)
		contentGroup.DELETE("/:id", content.Delete)
		contentGroup.POST("/:id/like", content.Like)
		contentGroup.POST("/:id/unlike", content.Unlike)
		contentGroup.POST("/:id/save", content.Save)
		contentGroup.POST("/:id/unsave", content.Unsave)
	}

	// 用户关注相关接口
	followGroup := r.Group("/api/follow")
	followGroup.Use(middleware.AuthMiddleware())
	{
		followGroup.POST("/", follow.Follow)
		followGroup.GET("/followings", follow.ListFollowings)
		followGroup.GET("/followers", follow.ListFollowers)
		followGroup.GET("/relation", follow.Relation)
	}

	return r
}
