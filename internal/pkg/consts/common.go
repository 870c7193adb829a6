package consts

const (
	// DefaultCategory 没有标签的工具归类
	DefaultCategory = "Other"
	// RecentActivityLimit 仪表盘动态条数
	RecentActivityLimit = 10
	// TrendingCandidateLimit 参与趋势计算的工具数
	TrendingCandidateLimit = 50
	// TrendingLimit 返回的趋势工具数
	TrendingLimit = 5
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

const (
	ContextUserID    = "user_id"
	ContextUserName  = "user_name"
	ContextUserEmail = "user_email"
)
