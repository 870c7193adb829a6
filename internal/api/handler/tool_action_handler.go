package handler

import (
	"BuilderCentral/internal/api/dto"
	"BuilderCentral/internal/pkg/response"
	"BuilderCentral/internal/service"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

type ToolActionHandler struct {
	actionSvc service.ToolActionService
}

func NewToolActionHandler(actionSvc service.ToolActionService) *ToolActionHandler {
	return &ToolActionHandler{actionSvc: actionSvc}
}

func (s *ToolActionHandler) Like(c *gin.Context) {
	res, err := s.actionSvc.LikeTool(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ToolActionHandler) Unlike(c *gin.Context) {
	res, err := s.actionSvc.UnlikeTool(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ToolActionHandler) Favorite(c *gin.Context) {
	res, err := s.actionSvc.FavoriteTool(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ToolActionHandler) Unfavorite(c *gin.Context) {
	res, err := s.actionSvc.UnfavoriteTool(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Share 请求体可以为空
func (s *ToolActionHandler) Share(c *gin.Context) {
	var req dto.ShareDTO
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, err)
		return
	}
	if err := s.actionSvc.ShareTool(c.Request.Context(), currentUserID(c), c.Param("id"), req.Platform); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ToolActionHandler) Interact(c *gin.Context) {
	var req dto.InteractionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	tool, err := s.actionSvc.Interact(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tool)
}
