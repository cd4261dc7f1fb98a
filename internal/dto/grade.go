package dto

// ── 成绩模块 DTO ──

// CreateGradeRequest 单条录入成绩请求
// 与批量导入不同，单条路径会显式设置成绩状态
type CreateGradeRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	CourseID  string `json:"course_id"  binding:"required,uuid"`
	Grade     int    `json:"grade"      binding:"min=0,max=100"`
	Status    string `json:"status"     binding:"omitempty,oneof=active absent hide"`
}

// UpdateGradeRequest 修改成绩请求
type UpdateGradeRequest struct {
	Grade  *int    `json:"grade"  binding:"omitempty,min=0,max=100"`
	Status *string `json:"status" binding:"omitempty,oneof=active absent hide"`
}

// GradeListRequest 成绩列表查询参数
type GradeListRequest struct {
	PaginationRequest
	CourseID   string `form:"course_id"   binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=active absent hide"`
	SearchCode string `form:"search_code" binding:"omitempty,max=50"`
	SortBy     string `form:"sort_by"     binding:"omitempty,oneof=grade created_at student_code"`
	SortOrder  string `form:"sort_order"  binding:"omitempty,oneof=asc desc"`
}

// GradeResponse 成绩列表行（关联学生与课程名）
type GradeResponse struct {
	ID          string `json:"id"`
	StudentCode string `json:"student_code"`
	StudentName string `json:"student_name"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name"`
	Grade       int    `json:"grade"`
	Status      string `json:"status"`
}
