package service

import (
	"context"

	"go.uber.org/zap"

	"grade-center/backend/internal/dto"
	"grade-center/backend/internal/model"
	"grade-center/backend/internal/repository"
)

// StudentService 学生查询业务接口
// 学生数据的写入全部走批量导入管道，此处只提供查询
type StudentService interface {
	List(ctx context.Context, req *dto.StudentListRequest) ([]model.Student, int64, error)
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger}
}

// List 学生分页查询，支持学号模糊搜索与状态过滤
func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]model.Student, int64, error) {
	filter := repository.StudentFilter{
		SearchCode: req.SearchCode,
		Status:     req.Status,
		Offset:     req.GetOffset(),
		Limit:      req.GetPageSize(),
	}
	return s.repo.Student.List(ctx, filter)
}
