package api

import (
	"BuilderCentral/internal/api/config"
	"BuilderCentral/internal/api/middleware"
	"BuilderCentral/internal/pkg/logger"
	"BuilderCentral/internal/pkg/security"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterDeps 路由层需要的鉴权组件
type RouterDeps struct {
	JWT       *security.JWTManager
	Blacklist middleware.TokenBlacklist
	Logstash  config.LogstashConfig
}

func SetupRouter(group *HandlersGroup, deps RouterDeps) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, deps.Logstash)

	auth := middleware.AuthMiddleware(deps.JWT, deps.Blacklist)
	authOpt := middleware.AuthOptionalMiddleware(deps.JWT, deps.Blacklist)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.UserHandler.Register)
			authGroup.POST("/login", group.UserHandler.Login)
			authGroup.POST("/logout", auth, group.UserHandler.Logout)
		}

		usersGroup := apiGroup.Group("/users")
		usersGroup.Use(auth)
		{
			usersGroup.GET("/profile", group.UserHandler.GetProfile)
			usersGroup.PUT("/profile", group.UserHandler.UpdateProfile)
			usersGroup.DELETE("/profile", group.UserHandler.DeleteAccount)
			usersGroup.PUT("/password", group.UserHandler.ChangePassword)
		}
		apiGroup.GET("/user/favorites", auth, group.UserHandler.GetFavorites)

		toolGroup := apiGroup.Group("/tools")
		{
			toolGroup.GET("", group.ToolHandler.ListTools)

			authOptGroup := toolGroup.Group("")
			authOptGroup.Use(authOpt)
			{
				authOptGroup.GET("/:id", group.ToolHandler.GetTool)
				authOptGroup.POST("/:id/share", group.ToolActionHandler.Share)
			}

			authToolGroup := toolGroup.Group("")
			authToolGroup.Use(auth)
			{
				authToolGroup.POST("", group.ToolHandler.CreateTool)
				authToolGroup.GET("/user", group.ToolHandler.GetUserTools)
				authToolGroup.GET("/preview", group.ToolHandler.Preview)
				authToolGroup.PUT("/:id", group.ToolHandler.UpdateTool)
				authToolGroup.DELETE("/:id", group.ToolHandler.DeleteTool)
				authToolGroup.POST("/:id/likes", group.ToolActionHandler.Like)
				authToolGroup.DELETE("/:id/likes", group.ToolActionHandler.Unlike)
				authToolGroup.POST("/:id/favorites", group.ToolActionHandler.Favorite)
				authToolGroup.DELETE("/:id/favorites", group.ToolActionHandler.Unfavorite)
				authToolGroup.POST("/:id/interactions", group.ToolActionHandler.Interact)
			}
		}

		apiGroup.GET("/dashboard/stats", auth, group.DashboardHandler.GetStats)

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(auth)
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}
