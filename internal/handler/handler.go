package handler

import (
	"net/http"
	"strconv"

	"trailhub/internal/apperr"
	"trailhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

func pathID(c *gin.Context, name string) uint64 {
	id, _ := strconv.ParseUint(c.Param(name), 10, 64)
	return id
}

// respondError 业务错误按分类映射状态码，其余一律 500
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	body := gin.H{"msg": err.Error()}
	if code, ok := apperr.CodeOf(err); ok {
		body["code"] = code
	} else {
		status = http.StatusInternalServerError
		body = gin.H{"msg": "internal error"}
	}
	c.JSON(status, body)
}
