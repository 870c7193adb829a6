package consts

const (
	TokenBlacklistKey   = "auth:blacklist:"
	DashboardStatsKey   = "dashboard:stats:"
	ToolDirtyKey        = "tool:dirty"
	ToolIndexLock       = "lock:tool:index"
	LinkPreviewCacheKey = "tool:preview:"
)
