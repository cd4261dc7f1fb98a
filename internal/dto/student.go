package dto

// ── 学生模块 DTO ──

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	SearchCode string `form:"search_code" binding:"omitempty,max=50"`
	Status     string `form:"status"      binding:"omitempty,oneof=active absent hide"`
}
