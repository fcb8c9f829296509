package handler

import (
	"net/http"
	"strconv"

	"trailhub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FollowHandler struct {
	svc *service.MembershipService
}

func NewFollowHandler(db *gorm.DB) *FollowHandler {
	return &FollowHandler{svc: service.NewMembershipService(db)}
}

type followReq struct {
	FollowingID uint64 `json:"following_id" binding:"required"`
	Action      string `json:"action" binding:"required,oneof=follow unfollow"`
}

// Follow 关注接口
func (h *FollowHandler) Follow(c *gin.Context) {
	var req followReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	var err error
	if req.Action == "follow" {
		err = h.svc.Follow(c.Request.Context(), uid, req.FollowingID)
	} else {
		err = h.svc.Unfollow(c.Request.Context(), uid, req.FollowingID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// ListFollowings 获取关注列表
func (h *FollowHandler) ListFollowings(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, next, err := h.svc.ListFollowings(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

// ListFollowers 获取粉丝列表
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, next, err := h.svc.ListFollowers(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

// Relation 获取用户间关系
func (h *FollowHandler) Relation(c *gin.Context) {
	from, _ := strconv.ParseUint(c.Query("from"), 10, 64)
	to, _ := strconv.ParseUint(c.Query("to"), 10, 64)
	ok, err := h.svc.IsFollowing(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": ok})
}
