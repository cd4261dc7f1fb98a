package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"grade-center/backend/internal/model"
	"grade-center/backend/internal/repository"
)

func TestSystemService_DeleteAllData(t *testing.T) {
	studentRepo := newMockStudentRepo()
	courseRepo := newMockCourseRepo()
	gradeRepo := newMockGradeRepo()
	actionRepo := newMockAdminActionRepo()
	repo := &repository.Repository{
		Student:     studentRepo,
		Course:      courseRepo,
		Grade:       gradeRepo,
		AdminAction: actionRepo,
	}
	logger := zap.NewNop()
	svc := NewSystemService(repo, NewAuditService(repo, logger), logger)

	studentRepo.students["S0001"] = &model.Student{ID: "stu-0001", StudentCode: "S0001"}
	courseRepo.courses["course-001"] = &model.Course{ID: "course-001", CourseName: "数学"}
	gradeRepo.grades["stu-0001/course-001"] = &model.Grade{ID: "grade-0001"}

	if err := svc.DeleteAllData(context.Background(), "admin-001"); err != nil {
		t.Fatalf("DeleteAllData 应成功: %v", err)
	}

	if len(studentRepo.students) != 0 || len(courseRepo.courses) != 0 || len(gradeRepo.grades) != 0 {
		t.Error("三张业务表应全部清空")
	}
	if !gradeRepo.deleteAllCalled {
		t.Error("应调用成绩全表删除")
	}
	// 审计记录保留且新增一条 delete_all
	if len(actionRepo.actions) != 1 || actionRepo.actions[0].Operation != "delete_all" {
		t.Errorf("应记录 delete_all 审计，实际 %+v", actionRepo.actions)
	}
}
