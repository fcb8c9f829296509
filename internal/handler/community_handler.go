package handler

import (
	"net/http"
	"strconv"

	"trailhub/internal/apperr"
	"trailhub/internal/model"
	"trailhub/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommunityHandler struct {
	svc        *service.CommunityService
	membership *service.MembershipService
}

type CommunityCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPremium   bool   `json:"is_premium"`
}

type RoleGrantReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
	// grant=新发授权，reassign=改已有授权
	Action string `json:"action" binding:"required,oneof=grant reassign"`
}

func NewCommunityHandler(db *gorm.DB) *CommunityHandler {
	return &CommunityHandler{
		svc:        service.NewCommunityService(db),
		membership: service.NewMembershipService(db),
	}
}

func (h *CommunityHandler) Create(c *gin.Context) {
	userID := userIDFromCtx(c)

	var req CommunityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.Create(c.Request.Context(), userID, req.Name, req.Description, req.IsPremium)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          community.ID,
		"name":        community.Name,
		"description": community.Description,
	})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")

	if err := h.membership.Join(c.Request.Context(), communityID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")

	if err := h.membership.Leave(c.Request.Context(), communityID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")

	if err := h.svc.Delete(c.Request.Context(), userID, communityID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// MyRole 查询调用者在社区内的有效角色
func (h *CommunityHandler) MyRole(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")

	role, err := h.svc.ResolveRole(c.Request.Context(), communityID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	member, err := h.membership.IsMember(c.Request.Context(), communityID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role.String(), "is_member": member})
}

func (h *CommunityHandler) GrantRole(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")

	var req RoleGrantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		respondError(c, apperr.InvalidOperation(err.Error()))
		return
	}

	if req.Action == "grant" {
		err = h.svc.Grant(c.Request.Context(), communityID, userID, req.UserID, role)
	} else {
		err = h.svc.Reassign(c.Request.Context(), communityID, userID, req.UserID, role)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) RevokeRole(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")
	targetID, _ := strconv.ParseUint(c.Param("userId"), 10, 64)

	if err := h.svc.Revoke(c.Request.Context(), communityID, userID, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CommunityHandler) ListGrants(c *gin.Context) {
	userID := userIDFromCtx(c)
	communityID := pathID(c, "id")

	list, err := h.svc.ListGrants(c.Request.Context(), communityID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
