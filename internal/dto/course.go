package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	CourseName string `json:"course_name" binding:"required,min=1,max=100"`
	Level      int    `json:"level"       binding:"omitempty,min=1,max=12"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	CourseName *string `json:"course_name" binding:"omitempty,min=1,max=100"`
	Level      *int    `json:"level"       binding:"omitempty,min=1,max=12"`
}
