//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"grade-center/backend/internal/model"
	"grade-center/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=grade_center password=grade_center_password dbname=grade_center_test sslmode=disable TimeZone=Africa/Cairo"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// gen_random_uuid 依赖 pgcrypto
	if err := testDB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		fmt.Fprintf(os.Stderr, "创建 pgcrypto 扩展失败: %v\n", err)
		os.Exit(1)
	}

	err = testDB.AutoMigrate(
		&model.Student{},
		&model.Course{},
		&model.Grade{},
		&model.AdminAction{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// uniqueSuffix 保证多次运行的数据互不冲突
func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func setupCourse(t *testing.T) *model.Course {
	t.Helper()
	course := &model.Course{CourseName: "集成测试课程-" + uniqueSuffix(), Level: 1}
	if err := repository.NewCourseRepo(testDB).Create(context.Background(), course); err != nil {
		t.Fatalf("创建课程失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("id = ?", course.ID).Delete(&model.Course{})
	})
	return course
}

// ═══════════════════════════════════════════════════════════
// StudentRepository
// ═══════════════════════════════════════════════════════════

func TestStudentRepo_UpsertBatch_ConflictOverwrites(t *testing.T) {
	repo := repository.NewStudentRepo(testDB)
	ctx := context.Background()
	code := "IT-S-" + uniqueSuffix()

	first := []model.Student{{
		StudentCode: code,
		StudentName: "旧姓名",
		NationalID:  "296" + uniqueSuffix(),
		Status:      "active",
	}}
	if err := repo.UpsertBatch(ctx, first); err != nil {
		t.Fatalf("首次写入失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("student_code = ?", code).Delete(&model.Student{})
	})

	found, err := repo.ListByCodes(ctx, []string{code})
	if err != nil || len(found) != 1 {
		t.Fatalf("反查失败: %v, %d 条", err, len(found))
	}
	oldID := found[0].ID

	second := []model.Student{{
		StudentCode: code,
		StudentName: "新姓名",
		NationalID:  first[0].NationalID,
		Status:      "absent",
	}}
	if err := repo.UpsertBatch(ctx, second); err != nil {
		t.Fatalf("冲突覆盖写入失败: %v", err)
	}

	var st model.Student
	if err := testDB.Where("student_code = ?", code).First(&st).Error; err != nil {
		t.Fatalf("读取学生失败: %v", err)
	}
	if st.ID != oldID {
		t.Errorf("冲突覆盖应保留原 id，期望 %s，实际 %s", oldID, st.ID)
	}
	if st.StudentName != "新姓名" || st.Status != "absent" {
		t.Errorf("字段应被覆盖，实际 %s/%s", st.StudentName, st.Status)
	}
}

func TestStudentRepo_ListByCodes_OnlyMatching(t *testing.T) {
	repo := repository.NewStudentRepo(testDB)
	ctx := context.Background()
	code := "IT-L-" + uniqueSuffix()

	students := []model.Student{{
		StudentCode: code,
		StudentName: "学生",
		NationalID:  "297" + uniqueSuffix(),
		Status:      "active",
	}}
	if err := repo.UpsertBatch(ctx, students); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("student_code = ?", code).Delete(&model.Student{})
	})

	found, err := repo.ListByCodes(ctx, []string{code, "IT-NO-SUCH-CODE"})
	if err != nil {
		t.Fatalf("反查失败: %v", err)
	}
	if len(found) != 1 || found[0].StudentCode != code {
		t.Errorf("应只命中存在的学号，实际 %+v", found)
	}
	if found[0].ID == "" {
		t.Error("反查结果应携带 id")
	}
}

// ═══════════════════════════════════════════════════════════
// GradeRepository
// ═══════════════════════════════════════════════════════════

func TestGradeRepo_UpsertBatch_StatusPolicy(t *testing.T) {
	studentRepo := repository.NewStudentRepo(testDB)
	gradeRepo := repository.NewGradeRepo(testDB)
	ctx := context.Background()
	course := setupCourse(t)
	code := "IT-G-" + uniqueSuffix()

	if err := studentRepo.UpsertBatch(ctx, []model.Student{{
		StudentCode: code,
		StudentName: "学生",
		NationalID:  "298" + uniqueSuffix(),
		Status:      "active",
	}}); err != nil {
		t.Fatalf("写入学生失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("student_code = ?", code).Delete(&model.Student{})
	})
	found, _ := studentRepo.ListByCodes(ctx, []string{code})
	studentID := found[0].ID

	// 首次写入：status=absent
	if err := gradeRepo.UpsertBatch(ctx, []model.Grade{{
		StudentID: studentID,
		CourseID:  course.ID,
		Grade:     60,
		Status:    "absent",
	}}, true); err != nil {
		t.Fatalf("首次写入成绩失败: %v", err)
	}

	// 冲突覆盖 updateStatus=false：分数更新，状态保持
	if err := gradeRepo.UpsertBatch(ctx, []model.Grade{{
		StudentID: studentID,
		CourseID:  course.ID,
		Grade:     90,
		Status:    "active",
	}}, false); err != nil {
		t.Fatalf("冲突覆盖失败: %v", err)
	}

	var g model.Grade
	if err := testDB.Where("student_id = ? AND course_id = ?", studentID, course.ID).First(&g).Error; err != nil {
		t.Fatalf("读取成绩失败: %v", err)
	}
	if g.Grade != 90 {
		t.Errorf("分数应被覆盖为 90，实际 %d", g.Grade)
	}
	if g.Status != "absent" {
		t.Errorf("updateStatus=false 时状态应保持 absent，实际 %s", g.Status)
	}

	// 冲突覆盖 updateStatus=true：状态同步更新
	if err := gradeRepo.UpsertBatch(ctx, []model.Grade{{
		StudentID: studentID,
		CourseID:  course.ID,
		Grade:     95,
		Status:    "active",
	}}, true); err != nil {
		t.Fatalf("冲突覆盖失败: %v", err)
	}
	if err := testDB.Where("student_id = ? AND course_id = ?", studentID, course.ID).First(&g).Error; err != nil {
		t.Fatalf("读取成绩失败: %v", err)
	}
	if g.Status != "active" {
		t.Errorf("updateStatus=true 时状态应更新为 active，实际 %s", g.Status)
	}
}

func TestGradeRepo_Create_DuplicateTranslated(t *testing.T) {
	studentRepo := repository.NewStudentRepo(testDB)
	gradeRepo := repository.NewGradeRepo(testDB)
	ctx := context.Background()
	course := setupCourse(t)
	code := "IT-D-" + uniqueSuffix()

	if err := studentRepo.UpsertBatch(ctx, []model.Student{{
		StudentCode: code,
		StudentName: "学生",
		NationalID:  "299" + uniqueSuffix(),
		Status:      "active",
	}}); err != nil {
		t.Fatalf("写入学生失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("student_code = ?", code).Delete(&model.Student{})
	})
	found, _ := studentRepo.ListByCodes(ctx, []string{code})

	grade := &model.Grade{StudentID: found[0].ID, CourseID: course.ID, Grade: 80, Status: "active"}
	if err := gradeRepo.Create(ctx, grade); err != nil {
		t.Fatalf("首次创建成绩失败: %v", err)
	}

	dup := &model.Grade{StudentID: found[0].ID, CourseID: course.ID, Grade: 70, Status: "active"}
	err := gradeRepo.Create(ctx, dup)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("期望 gorm.ErrDuplicatedKey，实际: %v", err)
	}
}
