package handler

import (
	"context"
	"net/http"
	"strconv"

	"trailhub/internal/model"
	"trailhub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContentHandler struct {
	moderation *service.ModerationService
	engagement *service.EngagementService
}

type ContentCreateReq struct {
	CommunityID    uint64 `json:"community_id" binding:"required"`
	Kind           string `json:"kind" binding:"required,oneof=post route"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	OutsideVisible bool   `json:"outside_visible"`
}

func NewContentHandler(db *gorm.DB, engagement *service.EngagementService) *ContentHandler {
	return &ContentHandler{
		moderation: service.NewModerationService(db),
		engagement: engagement,
	}
}

func (h *ContentHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)

	var req ContentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	kind := model.KindPost
	if req.Kind == "route" {
		kind = model.KindRoute
	}

	content, err := h.moderation.Create(c.Request.Context(), userID, req.CommunityID, kind, req.Title, req.Body, req.OutsideVisible)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           content.ID,
		"status":       content.Status.String(),
		"published_at": content.PublishedAt,
	})
}

func (h *ContentHandler) Approve(c *gin.Context) {
	userID := userIDFromCtx(c)
	contentID := pathID(c, "id")

	if err := h.moderation.Approve(c.Request.Context(), userID, contentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ContentHandler) Reject(c *gin.Context) {
	userID := userIDFromCtx(c)
	contentID := pathID(c, "id")

	if err := h.moderation.Reject(c.Request.Context(), userID, contentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ContentHandler) Delete(c *gin.Context) {
	userID := userIDFromCtx(c)
	contentID := pathID(c, "id")

	if err := h.moderation.Delete(c.Request.Context(), userID, contentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// PendingQueue 审核队列，admin 起步
func (h *ContentHandler) PendingQueue(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, next, err := h.moderation.PendingQueue(c.Request.Context(), userID, communityID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "next_cursor": next})
}

func (h *ContentHandler) Like(c *gin.Context) {
	h.engage(c, h.engagement.Like)
}

func (h *ContentHandler) Unlike(c *gin.Context) {
	h.engage(c, h.engagement.Unlike)
}

func (h *ContentHandler) Save(c *gin.Context) {
	h.engage(c, h.engagement.SaveContent)
}

func (h *ContentHandler) Unsave(c *gin.Context) {
	h.engage(c, h.engagement.UnsaveContent)
}

func (h *ContentHandler) engage(c *gin.Context, fn func(ctx context.Context, userID, contentID uint64) error) {
	userID := userIDFromCtx(c)
	contentID := pathID(c, "id")

	if err := fn(c.Request.Context(), userID, contentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
