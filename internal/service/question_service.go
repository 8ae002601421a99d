package service

import (
	"context"
	"fmt"

	"github.com/yuqie6/StudyPath/internal/schema"
)

// QuestionService 题库查询，按课程或按类别抽题
type QuestionService struct {
	questions  QuestionStore
	categories *CategoryService
}

func NewQuestionService(questions QuestionStore, categories *CategoryService) *QuestionService {
	return &QuestionService{questions: questions, categories: categories}
}

// ListQuestions 取某门课程的题目
func (s *QuestionService) ListQuestions(ctx context.Context, courseID, limit int, random bool) ([]schema.CourseQuestion, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	qs, err := s.questions.ListByCourse(ctx, courseID, limit, random)
	if err != nil {
		return nil, fmt.Errorf("查询课程题目失败: %w", err)
	}
	return qs, nil
}

// ListQuestionsByCategory 按语义标签抽题
// 标签先经类别解析展开成具体 type_id 集合（major 标签需要 userID），
// 未知标签得到空集，此时直接返回空列表而不是全库抽题。
func (s *QuestionService) ListQuestionsByCategory(ctx context.Context, label string, userID int64, limit int, random bool) ([]schema.CourseQuestion, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	typeIDs, err := s.categories.ResolveTypeIDs(ctx, label, userID)
	if err != nil {
		return nil, fmt.Errorf("解析课程类别失败: %w", err)
	}
	if len(typeIDs) == 0 {
		return []schema.CourseQuestion{}, nil
	}
	qs, err := s.questions.ListByTypeIDs(ctx, typeIDs, limit, random)
	if err != nil {
		return nil, fmt.Errorf("按类别查询题目失败: %w", err)
	}
	return qs, nil
}
