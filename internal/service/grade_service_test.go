package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"grade-center/backend/internal/dto"
	"grade-center/backend/internal/model"
	"grade-center/backend/internal/repository"
)

// ── 测试辅助 ──

type gradeTestEnv struct {
	svc        GradeService
	gradeRepo  *mockGradeRepo
	actionRepo *mockAdminActionRepo
}

func setupTestGradeService() *gradeTestEnv {
	gradeRepo := newMockGradeRepo()
	actionRepo := newMockAdminActionRepo()
	repo := &repository.Repository{
		Student:     newMockStudentRepo(),
		Course:      newMockCourseRepo(),
		Grade:       gradeRepo,
		AdminAction: actionRepo,
	}
	logger := zap.NewNop()
	audit := NewAuditService(repo, logger)
	return &gradeTestEnv{
		svc:        NewGradeService(repo, audit, logger),
		gradeRepo:  gradeRepo,
		actionRepo: actionRepo,
	}
}

// ── Create 测试 ──

func TestGradeService_Create_Success(t *testing.T) {
	env := setupTestGradeService()

	req := &dto.CreateGradeRequest{
		StudentID: "stu-0001",
		CourseID:  "course-001",
		Grade:     92,
	}
	grade, err := env.svc.Create(context.Background(), req, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if grade.Status != model.StatusActive {
		t.Errorf("未指定状态时应默认 active，实际 %s", grade.Status)
	}
	if len(env.actionRepo.actions) != 1 {
		t.Errorf("应记录 1 条审计，实际 %d", len(env.actionRepo.actions))
	}
}

func TestGradeService_Create_Duplicate(t *testing.T) {
	env := setupTestGradeService()

	req := &dto.CreateGradeRequest{StudentID: "stu-0001", CourseID: "course-001", Grade: 92}
	if _, err := env.svc.Create(context.Background(), req, "admin-001"); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	_, err := env.svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrGradeExists) {
		t.Errorf("期望 ErrGradeExists，实际: %v", err)
	}
}

// ── Update / Delete 测试 ──

func TestGradeService_Update_Success(t *testing.T) {
	env := setupTestGradeService()

	req := &dto.CreateGradeRequest{StudentID: "stu-0001", CourseID: "course-001", Grade: 60}
	created, _ := env.svc.Create(context.Background(), req, "admin-001")

	newGrade := 88
	newStatus := "absent"
	updated, err := env.svc.Update(context.Background(), created.ID, &dto.UpdateGradeRequest{
		Grade:  &newGrade,
		Status: &newStatus,
	}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Grade != 88 || updated.Status != "absent" {
		t.Errorf("期望 88/absent，实际 %d/%s", updated.Grade, updated.Status)
	}
}

func TestGradeService_Update_NotFound(t *testing.T) {
	env := setupTestGradeService()

	newGrade := 88
	_, err := env.svc.Update(context.Background(), "no-such-grade", &dto.UpdateGradeRequest{Grade: &newGrade}, "admin-001")
	if !errors.Is(err, ErrGradeNotFound) {
		t.Errorf("期望 ErrGradeNotFound，实际: %v", err)
	}
}

func TestGradeService_Delete_NotFound(t *testing.T) {
	env := setupTestGradeService()

	err := env.svc.Delete(context.Background(), "no-such-grade", "admin-001")
	if !errors.Is(err, ErrGradeNotFound) {
		t.Errorf("期望 ErrGradeNotFound，实际: %v", err)
	}
}

// ── 导出测试 ──

func TestGradeService_ExportGrades_Format(t *testing.T) {
	env := setupTestGradeService()
	env.gradeRepo.grades["stu-0001/course-001"] = &model.Grade{
		ID:        "grade-0001",
		StudentID: "stu-0001",
		CourseID:  "course-001",
		Grade:     95,
		Status:    "active",
		Student: &model.Student{
			StudentCode: "S0001",
			StudentName: `张"三, Jr`,
			NationalID:  "29600000000001",
			Status:      "active",
		},
		Course: &model.Course{CourseName: "数学, 高级"},
	}

	buf, filename, err := env.svc.ExportGrades(context.Background())
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}

	content := buf.String()
	if !strings.HasPrefix(content, "\uFEFF") {
		t.Error("导出内容应以 UTF-8 BOM 开头")
	}
	lines := strings.Split(strings.TrimPrefix(content, "\uFEFF"), "\n")
	if lines[0] != "Code,Name,National ID,Course,Grade,Student Status,Course Status" {
		t.Errorf("表头不符: %s", lines[0])
	}
	// 姓名内部引号双写，课程名含逗号整体加引号
	want := `S0001,"张""三, Jr",29600000000001,"数学, 高级",95,active,active`
	if lines[1] != want {
		t.Errorf("数据行不符:\n期望 %s\n实际 %s", want, lines[1])
	}

	wantName := "grades_export_" + time.Now().Format("2006-01-02") + ".csv"
	if filename != wantName {
		t.Errorf("文件名不符，期望 %s，实际 %s", wantName, filename)
	}
}

func TestGradeService_ExportGrades_Empty(t *testing.T) {
	env := setupTestGradeService()

	_, _, err := env.svc.ExportGrades(context.Background())
	if !errors.Is(err, ErrExportNoData) {
		t.Errorf("期望 ErrExportNoData，实际: %v", err)
	}
}
