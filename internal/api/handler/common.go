package handler

import (
	"BuilderCentral/internal/pkg/consts"

	"github.com/gin-gonic/gin"
)

// currentUserID 未登录时为空串
func currentUserID(c *gin.Context) string {
	return c.GetString(consts.ContextUserID)
}
