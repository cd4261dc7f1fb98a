package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"grade-center/backend/internal/dto"
	"grade-center/backend/internal/service"
	"grade-center/backend/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// ListGrades 成绩分页查询
// GET /api/v1/grades?course_id=&status=&search_code=&sort_by=&sort_order=&page=&page_size=
func (h *GradeHandler) ListGrades(c *gin.Context) {
	var req dto.GradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.gradeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreateGrade 单条录入成绩
// POST /api/v1/grades
func (h *GradeHandler) CreateGrade(c *gin.Context) {
	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminCode, ok := MustGetAdminCode(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.Create(c.Request.Context(), &req, adminCode)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.Created(c, grade)
}

// UpdateGrade 修改成绩
// PUT /api/v1/grades/:id
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "成绩ID不能为空")
		return
	}

	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	adminCode, ok := MustGetAdminCode(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.Update(c.Request.Context(), id, &req, adminCode)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, grade)
}

// DeleteGrade 删除成绩
// DELETE /api/v1/grades/:id
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "成绩ID不能为空")
		return
	}

	adminCode, ok := MustGetAdminCode(c)
	if !ok {
		return
	}

	if err := h.gradeSvc.Delete(c.Request.Context(), id, adminCode); err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ExportGrades 导出全部成绩为 CSV
// GET /api/v1/export/grades
func (h *GradeHandler) ExportGrades(c *gin.Context) {
	buf, filename, err := h.gradeSvc.ExportGrades(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportNoData) {
			response.NotFound(c, 15001, "暂无成绩数据可导出")
			return
		}
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 14001, "成绩记录不存在")
	case errors.Is(err, service.ErrGradeExists):
		response.Conflict(c, 14002, "该学生在此课程下已有成绩记录")
	default:
		response.InternalError(c)
	}
}
