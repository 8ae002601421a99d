package service

import (
	"context"
	"testing"

	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/testutil"
)

func newPlanService(t *testing.T) *PlanService {
	t.Helper()
	db := testutil.OpenTestDB(t)
	return NewPlanService(repository.NewPlanRepository(db))
}

func TestPlanCreateParsesDate(t *testing.T) {
	svc := newPlanService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, 1, PlanInput{Title: "复习高数", TargetDate: "2026-09-15"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if plan.TargetDate == nil || plan.TargetDate.Format("2006-01-02") != "2026-09-15" {
		t.Fatalf("目标日期解析错误: %v", plan.TargetDate)
	}
	if plan.Status != "pending" {
		t.Fatalf("缺省状态应为 pending，得到 %s", plan.Status)
	}
}

func TestPlanCreateValidation(t *testing.T) {
	svc := newPlanService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, PlanInput{Title: "  "}); err == nil {
		t.Error("空标题应拒绝")
	}
	if _, err := svc.Create(ctx, 1, PlanInput{Title: "t", TargetDate: "明天"}); err == nil {
		t.Error("非法日期应拒绝")
	}
	plan, err := svc.Create(ctx, 1, PlanInput{Title: "t", Status: "瞎填"})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Status != "pending" {
		t.Errorf("未知状态应回退 pending，得到 %s", plan.Status)
	}
}

func TestPlanListScopedAndFiltered(t *testing.T) {
	svc := newPlanService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, PlanInput{Title: "A", Status: "pending", TargetDate: "2026-09-02"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 1, PlanInput{Title: "B", Status: "completed", TargetDate: "2026-09-01"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 2, PlanInput{Title: "别人的", Status: "pending"}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, 1, "", "asc")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("用户 1 应有 2 条计划，实际 %d", len(all))
	}
	// 升序：B(09-01) 在 A(09-02) 前
	if all[0].Title != "B" || all[1].Title != "A" {
		t.Errorf("目标日升序排序错误: %s, %s", all[0].Title, all[1].Title)
	}

	done, err := svc.List(ctx, 1, "completed", "asc")
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 || done[0].Title != "B" {
		t.Fatalf("状态过滤错误: %v", done)
	}
}

func TestPlanUpdateAndDeleteScoped(t *testing.T) {
	svc := newPlanService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, 1, PlanInput{Title: "旧标题"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Update(ctx, plan.ID, 1, PlanInput{Title: "新标题", Status: "in_progress"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.List(ctx, 1, "", "asc")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "新标题" || got[0].Status != "in_progress" {
		t.Fatalf("更新未生效: %+v", got)
	}

	if err := svc.Delete(ctx, plan.ID, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	left, err := svc.List(ctx, 1, "", "asc")
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Fatalf("删除未生效，剩 %d 条", len(left))
	}
}
