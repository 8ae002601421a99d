package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yuqie6/StudyPath/internal/schema"
)

// PlanService 学习计划
type PlanService struct {
	plans PlanStore
}

func NewPlanService(plans PlanStore) *PlanService {
	return &PlanService{plans: plans}
}

// PlanInput 创建/更新计划的入参
type PlanInput struct {
	Title      string
	Content    string
	TargetDate string // "2006-01-02"，空表示不设目标日
	Status     string
}

func (in PlanInput) toSchema(userID int64) (*schema.StudyPlan, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("计划标题不能为空")
	}

	var target *time.Time
	if strings.TrimSpace(in.TargetDate) != "" {
		t, err := time.Parse("2006-01-02", in.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("目标日期格式应为 YYYY-MM-DD: %w", err)
		}
		target = &t
	}

	status := in.Status
	switch status {
	case "pending", "in_progress", "completed":
	default:
		status = "pending"
	}

	return &schema.StudyPlan{
		UserID:      userID,
		Title:       title,
		Description: in.Content,
		TargetDate:  target,
		Status:      status,
	}, nil
}

// List 查询用户计划，status 过滤可空，sort 取 asc/desc
func (s *PlanService) List(ctx context.Context, userID int64, status, sort string) ([]schema.StudyPlan, error) {
	if sort != "desc" {
		sort = "asc"
	}
	plans, err := s.plans.List(ctx, userID, status, sort)
	if err != nil {
		return nil, fmt.Errorf("查询学习计划失败: %w", err)
	}
	return plans, nil
}

// Create 新建计划
func (s *PlanService) Create(ctx context.Context, userID int64, in PlanInput) (*schema.StudyPlan, error) {
	plan, err := in.toSchema(userID)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("创建学习计划失败: %w", err)
	}
	return plan, nil
}

// Update 更新计划，按用户作用域
func (s *PlanService) Update(ctx context.Context, planID, userID int64, in PlanInput) (*schema.StudyPlan, error) {
	plan, err := in.toSchema(userID)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Update(ctx, planID, userID, plan); err != nil {
		return nil, fmt.Errorf("更新学习计划失败: %w", err)
	}
	plan.ID = planID
	return plan, nil
}

// Delete 删除计划，按用户作用域
func (s *PlanService) Delete(ctx context.Context, planID, userID int64) error {
	if err := s.plans.Delete(ctx, planID, userID); err != nil {
		return fmt.Errorf("删除学习计划失败: %w", err)
	}
	return nil
}
