package middleware

import (
	"BuilderCentral/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入用户，失败或缺失按匿名处理
func AuthOptionalMiddleware(jwt *security.JWTManager, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		if claims, err := authenticate(c, jwt, blacklist, token); err == nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}
