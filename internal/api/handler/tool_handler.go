package handler

import (
	"BuilderCentral/internal/api/dto"
	"BuilderCentral/internal/pkg/response"
	"BuilderCentral/internal/service"

	"github.com/gin-gonic/gin"
)

type ToolHandler struct {
	toolSvc   service.ToolService
	actionSvc service.ToolActionService
}

func NewToolHandler(toolSvc service.ToolService, actionSvc service.ToolActionService) *ToolHandler {
	return &ToolHandler{
		toolSvc:   toolSvc,
		actionSvc: actionSvc,
	}
}

func (s *ToolHandler) CreateTool(c *gin.Context) {
	var req dto.CreateToolDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	tool, err := s.toolSvc.CreateTool(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tool)
}

func (s *ToolHandler) ListTools(c *gin.Context) {
	var query dto.ToolListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.toolSvc.ListTools(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ToolHandler) GetUserTools(c *gin.Context) {
	tools, err := s.toolSvc.GetUserTools(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tools)
}

// GetTool 详情页同时记录一次浏览
func (s *ToolHandler) GetTool(c *gin.Context) {
	tool, err := s.actionSvc.ViewTool(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tool)
}

func (s *ToolHandler) UpdateTool(c *gin.Context) {
	var req dto.UpdateToolDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	tool, err := s.toolSvc.UpdateTool(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tool)
}

func (s *ToolHandler) DeleteTool(c *gin.Context) {
	if err := s.toolSvc.DeleteTool(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ToolHandler) Preview(c *gin.Context) {
	var query dto.PreviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.actionSvc.PreviewLink(c.Request.Context(), query.URL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
