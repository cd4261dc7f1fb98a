package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"grade-center/backend/internal/model"
	"grade-center/backend/internal/repository"
)

// AuditService 管理操作审计
// 审计是旁路记录：写入失败只告警，绝不影响主流程结果
type AuditService interface {
	Log(ctx context.Context, adminCode, tableName, operation string, changedData map[string]interface{})
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService 创建 AuditService 实例
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

// Log 记录一次管理操作
func (s *auditService) Log(ctx context.Context, adminCode, tableName, operation string, changedData map[string]interface{}) {
	payload, err := json.Marshal(changedData)
	if err != nil {
		s.logger.Warn("审计数据序列化失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return
	}

	action := &model.AdminAction{
		AdminCode:   adminCode,
		TableName_:  tableName,
		Operation:   operation,
		ChangedData: payload,
	}
	if err := s.repo.AdminAction.Create(ctx, action); err != nil {
		s.logger.Warn("审计记录写入失败",
			zap.String("table", tableName),
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}
