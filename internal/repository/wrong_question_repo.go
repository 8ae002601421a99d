package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuqie6/StudyPath/internal/schema"
	"gorm.io/gorm"
)

// WrongQuestionRepository 错题本仓储
type WrongQuestionRepository struct {
	db *gorm.DB
}

// NewWrongQuestionRepository 创建仓储
func NewWrongQuestionRepository(db *gorm.DB) *WrongQuestionRepository {
	return &WrongQuestionRepository{db: db}
}

// GetByQuestionID 按 (user_id, question_id) 查找，不存在返回 nil
func (r *WrongQuestionRepository) GetByQuestionID(ctx context.Context, userID, questionID int64) (*schema.WrongQuestion, error) {
	var wq schema.WrongQuestion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Order("id DESC").
		First(&wq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询错题失败: %w", err)
	}
	return &wq, nil
}

// GetByQuestionText 按 (user_id, question_text) 查找，不存在返回 nil
func (r *WrongQuestionRepository) GetByQuestionText(ctx context.Context, userID int64, questionText string) (*schema.WrongQuestion, error) {
	var wq schema.WrongQuestion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_text = ?", userID, questionText).
		Order("id DESC").
		First(&wq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询错题失败: %w", err)
	}
	return &wq, nil
}

// Create 插入新错题记录
func (r *WrongQuestionRepository) Create(ctx context.Context, wq *schema.WrongQuestion) error {
	if err := r.db.WithContext(ctx).Create(wq).Error; err != nil {
		return fmt.Errorf("插入错题失败: %w", err)
	}
	return nil
}

// UpdateErrorCount 写入新的错误次数
func (r *WrongQuestionRepository) UpdateErrorCount(ctx context.Context, id int64, errorCount int) error {
	err := r.db.WithContext(ctx).Model(&schema.WrongQuestion{}).
		Where("id = ?", id).
		Update("error_count", errorCount).Error
	if err != nil {
		return fmt.Errorf("更新错误次数失败: %w", err)
	}
	return nil
}

// List 查询用户错题，可按关键词过滤
func (r *WrongQuestionRepository) List(ctx context.Context, userID int64, keyword string) ([]schema.WrongQuestion, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("question_text LIKE ? OR course_name LIKE ?", like, like)
	}
	var wqs []schema.WrongQuestion
	err := q.Order("id DESC").Find(&wqs).Error
	if err != nil {
		return nil, fmt.Errorf("查询错题列表失败: %w", err)
	}
	return wqs, nil
}

// ListPaged 分页查询用户错题，可限定课程类别
func (r *WrongQuestionRepository) ListPaged(ctx context.Context, userID int64, typeIDs []int, keyword string, page, size int) ([]schema.WrongQuestion, int64, error) {
	q := r.db.WithContext(ctx).Model(&schema.WrongQuestion{}).
		Where("wrong_questions.user_id = ?", userID)
	if len(typeIDs) > 0 {
		q = q.Joins("JOIN courses c ON wrong_questions.course_name = c.name").
			Where("c.type_id IN ?", typeIDs)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("wrong_questions.question_text LIKE ? OR wrong_questions.course_name LIKE ?", like, like)
	}

	var total int64
	if err := q.Distinct("wrong_questions.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计错题失败: %w", err)
	}

	var wqs []schema.WrongQuestion
	err := q.Select("wrong_questions.*").
		Group("wrong_questions.id").
		Order("wrong_questions.id DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&wqs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("分页查询错题失败: %w", err)
	}
	return wqs, total, nil
}

// ListByTypeIDs 按类别随机抽取用户错题（错题重练）
func (r *WrongQuestionRepository) ListByTypeIDs(ctx context.Context, userID int64, typeIDs []int, limit int) ([]schema.WrongQuestion, error) {
	if len(typeIDs) == 0 {
		return []schema.WrongQuestion{}, nil
	}
	var wqs []schema.WrongQuestion
	err := r.db.WithContext(ctx).Model(&schema.WrongQuestion{}).
		Select("wrong_questions.*").
		Joins("JOIN courses c ON wrong_questions.course_name = c.name").
		Where("wrong_questions.user_id = ? AND c.type_id IN ?", userID, typeIDs).
		Group("wrong_questions.id").
		Order("RANDOM()").
		Limit(limit).
		Find(&wqs).Error
	if err != nil {
		return nil, fmt.Errorf("按类别查询错题失败: %w", err)
	}
	return wqs, nil
}

// Delete 删除用户自己的错题
func (r *WrongQuestionRepository) Delete(ctx context.Context, id, userID int64) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&schema.WrongQuestion{}).Error
	if err != nil {
		return fmt.Errorf("删除错题失败: %w", err)
	}
	return nil
}

// AdminWrongQuestionRow 后台错题列表行（带用户名）
type AdminWrongQuestionRow struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	Username      *string `json:"username"`
	QuestionID    *int64  `json:"questionId"`
	QuestionText  string  `json:"questionText"`
	CourseName    string  `json:"courseName"`
	YourAnswer    string  `json:"yourAnswer"`
	CorrectAnswer string  `json:"correctAnswer"`
	ErrorCount    int     `json:"errorCount"`
	CreatedAt     string  `json:"createdAt"`
}

// AdminListPaged 后台分页查询全部错题
func (r *WrongQuestionRepository) AdminListPaged(ctx context.Context, keyword string, page, size int) ([]AdminWrongQuestionRow, int64, error) {
	q := r.db.WithContext(ctx).Model(&schema.WrongQuestion{}).
		Joins("LEFT JOIN users u ON wrong_questions.user_id = u.id")
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("wrong_questions.question_text LIKE ? OR wrong_questions.course_name LIKE ? OR u.username LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计错题失败: %w", err)
	}

	var rows []AdminWrongQuestionRow
	err := q.Select("wrong_questions.id, wrong_questions.user_id, u.username, wrong_questions.question_id, wrong_questions.question_text, wrong_questions.course_name, wrong_questions.your_answer, wrong_questions.correct_answer, wrong_questions.error_count, wrong_questions.created_at").
		Order("wrong_questions.id DESC").
		Limit(size).Offset((page - 1) * size).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询错题列表失败: %w", err)
	}
	return rows, total, nil
}

// AdminDelete 后台删除任意错题
func (r *WrongQuestionRepository) AdminDelete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&schema.WrongQuestion{}).Error; err != nil {
		return fmt.Errorf("删除错题失败: %w", err)
	}
	return nil
}
