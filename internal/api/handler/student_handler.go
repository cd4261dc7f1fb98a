package handler

import (
	"github.com/gin-gonic/gin"

	"grade-center/backend/internal/dto"
	"grade-center/backend/internal/service"
	"grade-center/backend/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
// 学生数据的写入全部走批量导入，此处只提供查询
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// ListStudents 学生分页查询
// GET /api/v1/students?search_code=&status=&page=&page_size=
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}
