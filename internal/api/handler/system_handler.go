package handler

import (
	"github.com/gin-gonic/gin"

	"grade-center/backend/internal/service"
	"grade-center/backend/pkg/response"
)

// SystemHandler 系统级危险操作 HTTP 处理器
type SystemHandler struct {
	systemSvc service.SystemService
}

// NewSystemHandler 创建 SystemHandler
func NewSystemHandler(systemSvc service.SystemService) *SystemHandler {
	return &SystemHandler{systemSvc: systemSvc}
}

// DeleteAllData 清空学生、课程、成绩全表
// DELETE /api/v1/system/data?confirm=DELETE_ALL
// 必须携带确认参数，防止误触
func (h *SystemHandler) DeleteAllData(c *gin.Context) {
	if c.Query("confirm") != "DELETE_ALL" {
		response.BadRequest(c, 16001, "危险操作需携带 confirm=DELETE_ALL 确认参数")
		return
	}

	adminCode, ok := MustGetAdminCode(c)
	if !ok {
		return
	}

	if err := h.systemSvc.DeleteAllData(c.Request.Context(), adminCode); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
