package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/StudyPath/internal/schema"
	"gorm.io/gorm"
)

// QuestionRepository 题库仓储
type QuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository 创建仓储
func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListByCourse 返回指定课程的题目，random 为真时随机抽取
func (r *QuestionRepository) ListByCourse(ctx context.Context, courseID, limit int, random bool) ([]schema.CourseQuestion, error) {
	order := "id DESC"
	if random {
		order = "RANDOM()"
	}
	var qs []schema.CourseQuestion
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(order).
		Limit(limit).
		Find(&qs).Error
	if err != nil {
		return nil, fmt.Errorf("查询题目失败: %w", err)
	}
	return qs, nil
}

// ListByTypeIDs 跨课程按类别抽题
func (r *QuestionRepository) ListByTypeIDs(ctx context.Context, typeIDs []int, limit int, random bool) ([]schema.CourseQuestion, error) {
	if len(typeIDs) == 0 {
		return []schema.CourseQuestion{}, nil
	}
	order := "course_questions.id DESC"
	if random {
		order = "RANDOM()"
	}
	var qs []schema.CourseQuestion
	err := r.db.WithContext(ctx).Model(&schema.CourseQuestion{}).
		Joins("JOIN courses c ON course_questions.course_id = c.course_index").
		Where("c.type_id IN ?", typeIDs).
		Order(order).
		Limit(limit).
		Find(&qs).Error
	if err != nil {
		return nil, fmt.Errorf("按类别查询题目失败: %w", err)
	}
	return qs, nil
}

// ListPaged 后台分页查询题库
func (r *QuestionRepository) ListPaged(ctx context.Context, keyword string, page, size int) ([]schema.CourseQuestion, int64, error) {
	q := r.db.WithContext(ctx).Model(&schema.CourseQuestion{})
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("question LIKE ? OR course_name LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计题目失败: %w", err)
	}

	var qs []schema.CourseQuestion
	err := q.Order("id DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&qs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询题库失败: %w", err)
	}
	return qs, total, nil
}

// Create 新增题目
func (r *QuestionRepository) Create(ctx context.Context, q *schema.CourseQuestion) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("新增题目失败: %w", err)
	}
	return nil
}

// Update 修改题目内容
func (r *QuestionRepository) Update(ctx context.Context, id int64, question, options, answer, explanation string) error {
	err := r.db.WithContext(ctx).Model(&schema.CourseQuestion{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"question":    question,
			"options":     options,
			"answer":      answer,
			"explanation": explanation,
		}).Error
	if err != nil {
		return fmt.Errorf("修改题目失败: %w", err)
	}
	return nil
}

// Delete 删除题目
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&schema.CourseQuestion{}).Error; err != nil {
		return fmt.Errorf("删除题目失败: %w", err)
	}
	return nil
}
