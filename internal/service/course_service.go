package service

import (
	"context"
	"fmt"

	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/schema"
)

// CourseService 课程目录查询
type CourseService struct {
	courses    CourseStore
	categories *CategoryService
}

func NewCourseService(courses CourseStore, categories *CategoryService) *CourseService {
	return &CourseService{courses: courses, categories: categories}
}

// List 课程总表，limit<=0 表示不限
func (s *CourseService) List(ctx context.Context, limit int) ([]repository.CourseRow, error) {
	rows, err := s.courses.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("查询课程列表失败: %w", err)
	}
	return rows, nil
}

// ListPaged 分页搜索课程，mode 取 name 或 type
func (s *CourseService) ListPaged(ctx context.Context, keyword, mode string, page, size int) ([]repository.CourseRow, int64, error) {
	if mode != "type" {
		mode = "name"
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	rows, total, err := s.courses.ListPaged(ctx, keyword, mode, page, size)
	if err != nil {
		return nil, 0, fmt.Errorf("分页查询课程失败: %w", err)
	}
	return rows, total, nil
}

// ListTypes 课程类别列表，exclude 里的关键词对应类别会被剔除
func (s *CourseService) ListTypes(ctx context.Context, excludeKeywords []string) ([]schema.CourseType, error) {
	return s.categories.ListCourseTypes(ctx, excludeKeywords)
}
