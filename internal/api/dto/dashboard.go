package dto

// StatDTO 总量与环比
type StatDTO struct {
	Total int64 `json:"total"`
	Trend int   `json:"trend"`
}

// ActivityDTO 动态流条目
type ActivityDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Time      string `json:"time"`
	Timestamp int64  `json:"timestamp"`
	ToolID    string `json:"toolId,omitempty"`
	ToolName  string `json:"toolName,omitempty"`
}

// TrendingToolDTO 趋势工具
type TrendingToolDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Views    int64  `json:"views"`
	Likes    int    `json:"likes"`
	Category string `json:"category"`
	Trend    int    `json:"trend"`
}

// DashboardStatsDTO 仪表盘
type DashboardStatsDTO struct {
	Views         StatDTO            `json:"views"`
	Likes         StatDTO            `json:"likes"`
	Shares        StatDTO            `json:"shares"`
	Activities    []*ActivityDTO     `json:"activities"`
	TrendingTools []*TrendingToolDTO `json:"trendingTools"`
}
