package dto

// PreviewQuery 链接预览
type PreviewQuery struct {
	URL string `form:"url" binding:"required,url"`
}

// LinkPreviewDTO 新建工具时自动填充的信息
type LinkPreviewDTO struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
}
