package api

import "BuilderCentral/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler       *handler.UserHandler
	ToolHandler       *handler.ToolHandler
	ToolActionHandler *handler.ToolActionHandler
	DashboardHandler  *handler.DashboardHandler
	MediaHandler      *handler.MediaHandler
}
