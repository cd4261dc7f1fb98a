package service

import (
	"context"

	"go.uber.org/zap"

	"grade-center/backend/internal/repository"
)

// SystemService 系统级危险操作
type SystemService interface {
	// DeleteAllData 清空学生、课程与成绩全表（审计记录保留）
	DeleteAllData(ctx context.Context, adminCode string) error
}

type systemService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewSystemService 创建 SystemService 实例
func NewSystemService(repo *repository.Repository, audit AuditService, logger *zap.Logger) SystemService {
	return &systemService{repo: repo, audit: audit, logger: logger}
}

// DeleteAllData 先删成绩再删学生、课程，避免外键约束报错
func (s *systemService) DeleteAllData(ctx context.Context, adminCode string) error {
	if err := s.repo.Grade.DeleteAll(ctx); err != nil {
		return &StoreError{Phase: "清空成绩", Err: err}
	}
	if err := s.repo.Student.DeleteAll(ctx); err != nil {
		return &StoreError{Phase: "清空学生", Err: err}
	}
	if err := s.repo.Course.DeleteAll(ctx); err != nil {
		return &StoreError{Phase: "清空课程", Err: err}
	}

	s.logger.Warn("已清空全部业务数据", zap.String("admin_code", adminCode))
	s.audit.Log(ctx, adminCode, "all", "delete_all", map[string]interface{}{
		"scope": []string{"grades", "students", "courses"},
	})
	return nil
}
