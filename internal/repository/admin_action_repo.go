package repository

import (
	"context"

	"gorm.io/gorm"

	"grade-center/backend/internal/model"
)

// AdminActionRepository 操作审计数据访问接口
type AdminActionRepository interface {
	Create(ctx context.Context, action *model.AdminAction) error
}

// adminActionRepo AdminActionRepository 的 GORM 实现
type adminActionRepo struct {
	db *gorm.DB
}

// NewAdminActionRepo 创建 AdminActionRepository 实例
func NewAdminActionRepo(db *gorm.DB) AdminActionRepository {
	return &adminActionRepo{db: db}
}

func (r *adminActionRepo) Create(ctx context.Context, action *model.AdminAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}
