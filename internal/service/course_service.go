package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"grade-center/backend/internal/dto"
	"grade-center/backend/internal/model"
	"grade-center/backend/internal/repository"
)

// ErrCourseNotFound 课程不存在
var ErrCourseNotFound = errors.New("所选课程不存在")

// CourseService 课程管理业务接口
type CourseService interface {
	List(ctx context.Context) ([]model.Course, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest, adminCode string) (*model.Course, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, adminCode string) (*model.Course, error)
	Delete(ctx context.Context, id, adminCode string) error
	DeleteGrades(ctx context.Context, courseID, adminCode string) error
}

type courseService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, audit AuditService, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, audit: audit, logger: logger}
}

// List 查询全部课程，按课程名排序
func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	return s.repo.Course.List(ctx)
}

// Create 新建课程
func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, adminCode string) (*model.Course, error) {
	course := &model.Course{
		CourseName: req.CourseName,
		Level:      req.Level,
	}
	if course.Level == 0 {
		course.Level = 1
	}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, adminCode, "courses", "insert", map[string]interface{}{
		"course_id":   course.ID,
		"course_name": course.CourseName,
		"level":       course.Level,
	})
	return course, nil
}

// Update 更新课程信息
func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, adminCode string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.CourseName != nil {
		course.CourseName = *req.CourseName
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if err := s.repo.Course.Update(ctx, course); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, adminCode, "courses", "update", map[string]interface{}{
		"course_id":   course.ID,
		"course_name": course.CourseName,
		"level":       course.Level,
	})
	return course, nil
}

// Delete 删除课程（级联删除其成绩）
func (s *courseService) Delete(ctx context.Context, id, adminCode string) error {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Log(ctx, adminCode, "courses", "delete", map[string]interface{}{
		"course_id":   course.ID,
		"course_name": course.CourseName,
	})
	return nil
}

// DeleteGrades 清空指定课程的全部成绩（危险操作，课程本身保留）
func (s *courseService) DeleteGrades(ctx context.Context, courseID, adminCode string) error {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.repo.Grade.DeleteByCourse(ctx, courseID); err != nil {
		return err
	}

	s.logger.Info("已清空课程成绩",
		zap.String("course_id", courseID),
		zap.String("admin_code", adminCode),
	)
	s.audit.Log(ctx, adminCode, "grades", "delete_by_course", map[string]interface{}{
		"course_id":   course.ID,
		"course_name": course.CourseName,
	})
	return nil
}
