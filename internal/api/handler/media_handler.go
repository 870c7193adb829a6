package handler

import (
	"BuilderCentral/internal/pkg/response"
	"BuilderCentral/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if file.Size > service.MaxImageSize {
		response.Error(c, service.ErrFileTooLarge)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	res, err := s.mediaSvc.UploadToolImage(c.Request.Context(), reader, file.Size)
	if err != nil {
		log.WarnContext(c.Request.Context(), "upload tool image failed", "filename", file.Filename, "err", err)
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
