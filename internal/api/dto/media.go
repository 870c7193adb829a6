package dto

// MediaUploadDTO 上传结果
type MediaUploadDTO struct {
	URL       string `json:"url"`
	ObjectKey string `json:"objectKey"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Size      int64  `json:"size"`
}
