package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"grade-center/backend/internal/model"
	"grade-center/backend/internal/repository"
)

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student // key: student_code

	upsertCalls  []int // 每次 UpsertBatch 的块大小
	lookupCalls  []int // 每次 ListByCodes 的块大小
	failOnUpsert int   // 第 N 次 UpsertBatch 返回错误（0 表示不失败）
	failOnLookup int
	unresolved   map[string]struct{} // 反查时故意不返回的学号
	nextID       int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{
		students:   make(map[string]*model.Student),
		unresolved: make(map[string]struct{}),
	}
}

func (m *mockStudentRepo) UpsertBatch(_ context.Context, students []model.Student) error {
	m.upsertCalls = append(m.upsertCalls, len(students))
	if m.failOnUpsert > 0 && len(m.upsertCalls) == m.failOnUpsert {
		return fmt.Errorf("mock: 学生写入失败")
	}
	for i := range students {
		st := students[i]
		if existing, ok := m.students[st.StudentCode]; ok {
			st.ID = existing.ID
		} else {
			m.nextID++
			st.ID = fmt.Sprintf("stu-%04d", m.nextID)
		}
		m.students[st.StudentCode] = &st
	}
	return nil
}

func (m *mockStudentRepo) ListByCodes(_ context.Context, codes []string) ([]model.Student, error) {
	m.lookupCalls = append(m.lookupCalls, len(codes))
	if m.failOnLookup > 0 && len(m.lookupCalls) == m.failOnLookup {
		return nil, fmt.Errorf("mock: 学生反查失败")
	}
	var result []model.Student
	for _, code := range codes {
		if _, skip := m.unresolved[code]; skip {
			continue
		}
		if st, ok := m.students[code]; ok {
			result = append(result, model.Student{ID: st.ID, StudentCode: st.StudentCode})
		}
	}
	return result, nil
}

func (m *mockStudentRepo) List(_ context.Context, f repository.StudentFilter) ([]model.Student, int64, error) {
	var result []model.Student
	for _, st := range m.students {
		if f.Status != "" && st.Status != f.Status {
			continue
		}
		if f.SearchCode != "" && !strings.Contains(st.StudentCode, f.SearchCode) {
			continue
		}
		result = append(result, *st)
	}
	return result, int64(len(result)), nil
}

func (m *mockStudentRepo) DeleteAll(_ context.Context) error {
	m.students = make(map[string]*model.Student)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	nextID  int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.ID == "" {
		m.nextID++
		course.ID = fmt.Sprintf("course-%03d", m.nextID)
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCourseRepo) DeleteAll(_ context.Context) error {
	m.courses = make(map[string]*model.Course)
	return nil
}

// ── Mock GradeRepository ──

type mockGradeRepo struct {
	grades map[string]*model.Grade // key: student_id + "/" + course_id

	upsertCalls      []int
	lastUpdateStatus bool
	failOnUpsert     int
	createErr        error
	deletedCourse    string
	deleteAllCalled  bool
	nextID           int
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{grades: make(map[string]*model.Grade)}
}

func gradeKey(studentID, courseID string) string {
	return studentID + "/" + courseID
}

func (m *mockGradeRepo) UpsertBatch(_ context.Context, grades []model.Grade, updateStatus bool) error {
	m.upsertCalls = append(m.upsertCalls, len(grades))
	m.lastUpdateStatus = updateStatus
	if m.failOnUpsert > 0 && len(m.upsertCalls) == m.failOnUpsert {
		return fmt.Errorf("mock: 成绩写入失败")
	}
	for i := range grades {
		g := grades[i]
		key := gradeKey(g.StudentID, g.CourseID)
		if existing, ok := m.grades[key]; ok {
			existing.Grade = g.Grade
			if updateStatus {
				existing.Status = g.Status
			}
			continue
		}
		m.nextID++
		g.ID = fmt.Sprintf("grade-%04d", m.nextID)
		m.grades[key] = &g
	}
	return nil
}

func (m *mockGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	if m.createErr != nil {
		return m.createErr
	}
	key := gradeKey(grade.StudentID, grade.CourseID)
	if _, ok := m.grades[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.nextID++
	grade.ID = fmt.Sprintf("grade-%04d", m.nextID)
	m.grades[key] = grade
	return nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.Grade, error) {
	for _, g := range m.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) Update(_ context.Context, grade *model.Grade) error {
	m.grades[gradeKey(grade.StudentID, grade.CourseID)] = grade
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	for key, g := range m.grades {
		if g.ID == id {
			delete(m.grades, key)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) List(_ context.Context, f repository.GradeFilter) ([]model.Grade, int64, error) {
	var result []model.Grade
	for _, g := range m.grades {
		if f.CourseID != "" && g.CourseID != f.CourseID {
			continue
		}
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		result = append(result, *g)
	}
	return result, int64(len(result)), nil
}

func (m *mockGradeRepo) ListForExport(_ context.Context) ([]model.Grade, error) {
	var result []model.Grade
	for _, g := range m.grades {
		result = append(result, *g)
	}
	return result, nil
}

func (m *mockGradeRepo) DeleteByCourse(_ context.Context, courseID string) error {
	m.deletedCourse = courseID
	for key, g := range m.grades {
		if g.CourseID == courseID {
			delete(m.grades, key)
		}
	}
	return nil
}

func (m *mockGradeRepo) DeleteAll(_ context.Context) error {
	m.deleteAllCalled = true
	m.grades = make(map[string]*model.Grade)
	return nil
}

// ── Mock AdminActionRepository ──

type mockAdminActionRepo struct {
	actions []*model.AdminAction
	err     error
}

func newMockAdminActionRepo() *mockAdminActionRepo {
	return &mockAdminActionRepo{}
}

func (m *mockAdminActionRepo) Create(_ context.Context, action *model.AdminAction) error {
	if m.err != nil {
		return m.err
	}
	m.actions = append(m.actions, action)
	return nil
}
