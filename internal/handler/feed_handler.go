package handler

import (
	"net/http"
	"strconv"

	"trailhub/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	visibility *service.VisibilityService
}

func NewFeedHandler(visibility *service.VisibilityService) *FeedHandler {
	return &FeedHandler{visibility: visibility}
}

// Home 全站首页，匿名可看
func (h *FeedHandler) Home(c *gin.Context) {
	userID := userIDFromCtx(c)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, next, err := h.visibility.HomeFeed(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": items, "next_cursor": next})
}

// Community 社区页，可见范围按 actor 角色现算
func (h *FeedHandler) Community(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, next, err := h.visibility.CommunityFeed(c.Request.Context(), userID, communityID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": items, "next_cursor": next})
}
