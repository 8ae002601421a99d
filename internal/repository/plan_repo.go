package repository

import (
	"context"
	"fmt"

	"github.com/yuqie6/StudyPath/internal/schema"
	"gorm.io/gorm"
)

// PlanRepository 学习计划仓储
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建仓储
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// List 查询用户学习计划，可按状态过滤
// 无目标日期的计划排在最后，其余按目标日期排序。
func (r *PlanRepository) List(ctx context.Context, userID int64, status, sort string) ([]schema.StudyPlan, error) {
	order := "DESC"
	if sort == "asc" || sort == "ASC" {
		order = "ASC"
	}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var plans []schema.StudyPlan
	err := q.Order("target_date IS NULL, target_date " + order + ", id DESC").Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("查询学习计划失败: %w", err)
	}
	return plans, nil
}

// Create 创建学习计划
func (r *PlanRepository) Create(ctx context.Context, plan *schema.StudyPlan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("创建学习计划失败: %w", err)
	}
	return nil
}

// Update 更新用户自己的学习计划
func (r *PlanRepository) Update(ctx context.Context, planID, userID int64, plan *schema.StudyPlan) error {
	err := r.db.WithContext(ctx).Model(&schema.StudyPlan{}).
		Where("id = ? AND user_id = ?", planID, userID).
		Updates(map[string]any{
			"title":       plan.Title,
			"description": plan.Description,
			"target_date": plan.TargetDate,
			"status":      plan.Status,
		}).Error
	if err != nil {
		return fmt.Errorf("更新学习计划失败: %w", err)
	}
	return nil
}

// Delete 删除用户自己的学习计划
func (r *PlanRepository) Delete(ctx context.Context, planID, userID int64) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&schema.StudyPlan{}).Error
	if err != nil {
		return fmt.Errorf("删除学习计划失败: %w", err)
	}
	return nil
}

// AdminPlanRow 后台计划列表行（带用户名）
type AdminPlanRow struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	Username    *string `json:"username"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TargetDate  *string `json:"targetDate"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

// AdminListPaged 后台分页查询全部计划
func (r *PlanRepository) AdminListPaged(ctx context.Context, keyword string, page, size int) ([]AdminPlanRow, int64, error) {
	q := r.db.WithContext(ctx).Model(&schema.StudyPlan{}).
		Joins("LEFT JOIN users u ON study_plans.user_id = u.id")
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("study_plans.title LIKE ? OR u.username LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计学习计划失败: %w", err)
	}

	var rows []AdminPlanRow
	err := q.Select("study_plans.id, study_plans.user_id, u.username, study_plans.title, study_plans.description, study_plans.target_date, study_plans.status, study_plans.created_at").
		Order("study_plans.id DESC").
		Limit(size).Offset((page - 1) * size).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询学习计划失败: %w", err)
	}
	return rows, total, nil
}

// AdminUpdate 后台更新任意计划
func (r *PlanRepository) AdminUpdate(ctx context.Context, planID int64, plan *schema.StudyPlan) error {
	err := r.db.WithContext(ctx).Model(&schema.StudyPlan{}).
		Where("id = ?", planID).
		Updates(map[string]any{
			"title":       plan.Title,
			"description": plan.Description,
			"target_date": plan.TargetDate,
			"status":      plan.Status,
		}).Error
	if err != nil {
		return fmt.Errorf("更新学习计划失败: %w", err)
	}
	return nil
}

// AdminDelete 后台删除任意计划
func (r *PlanRepository) AdminDelete(ctx context.Context, planID int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", planID).Delete(&schema.StudyPlan{}).Error; err != nil {
		return fmt.Errorf("删除学习计划失败: %w", err)
	}
	return nil
}
