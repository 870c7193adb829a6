package middleware

import (
	"BuilderCentral/internal/pkg/consts"
	"BuilderCentral/internal/pkg/logger"
	"BuilderCentral/internal/pkg/response"
	"BuilderCentral/internal/pkg/security"
	"BuilderCentral/internal/service"
	"context"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenBlacklist 注销后的 Token 签名
type TokenBlacklist interface {
	Exists(ctx context.Context, key string) (bool, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// authenticate 校验签名、黑名单与有效期
func authenticate(c *gin.Context, jwt *security.JWTManager, blacklist TokenBlacklist, token string) (*security.UserClaims, error) {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil, err
	}
	revoked, err := blacklist.Exists(c.Request.Context(), consts.TokenBlacklistKey+signature)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, security.ErrTokenInvalid
	}
	return jwt.ValidateToken(token)
}

func setIdentity(c *gin.Context, claims *security.UserClaims) {
	c.Set(consts.ContextUserID, claims.UserID)
	c.Set(consts.ContextUserName, claims.Name)
	c.Set(consts.ContextUserEmail, claims.Email)

	newCtx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(jwt *security.JWTManager, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, service.ErrAuthRequired.Error())
			c.Abort()
			return
		}

		claims, err := authenticate(c, jwt, blacklist, token)
		if err != nil {
			log.WarnContext(c.Request.Context(), "authentication failed", "err", err)
			response.Fail(c, response.Unauthorized, service.ErrAuthRequired.Error())
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}
