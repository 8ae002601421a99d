package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/schema"
)

// AdminService 后台管理：账号、课程链接、类别字典和数据维护
// 直接依赖具体仓储而非接口：后台操作面宽且都是薄转发，
// 为每个仓储拆最小接口收益有限。
type AdminService struct {
	admins     *repository.AdminRepository
	users      *repository.UserRepository
	courses    *repository.CourseRepository
	questions  *repository.QuestionRepository
	wrongs     *repository.WrongQuestionRepository
	plans      *repository.PlanRepository
	categories *CategoryService
	hasher     PasswordHasher
}

func NewAdminService(
	admins *repository.AdminRepository,
	users *repository.UserRepository,
	courses *repository.CourseRepository,
	questions *repository.QuestionRepository,
	wrongs *repository.WrongQuestionRepository,
	plans *repository.PlanRepository,
	categories *CategoryService,
	hasher PasswordHasher,
) *AdminService {
	return &AdminService{
		admins:     admins,
		users:      users,
		courses:    courses,
		questions:  questions,
		wrongs:     wrongs,
		plans:      plans,
		categories: categories,
		hasher:     hasher,
	}
}

// EnsureDefaultAdmin 空表时写入默认管理员 admin/admin123
// 仅为本地首次启动兜底，日志里提醒改密码。
func (s *AdminService) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("查询管理员数量失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := s.hasher.Hash("admin123")
	if err != nil {
		return fmt.Errorf("密码散列失败: %w", err)
	}
	admin := &schema.Admin{Username: "admin", PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("创建默认管理员失败: %w", err)
	}
	slog.Warn("已创建默认管理员 admin/admin123，请尽快修改密码")
	return nil
}

// Login 管理员登录
func (s *AdminService) Login(ctx context.Context, username, password string) (*schema.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("查询管理员失败: %w", err)
	}
	if admin == nil {
		return nil, ErrUserNotFound
	}
	if !s.hasher.Verify(admin.PasswordHash, password) {
		return nil, ErrWrongPassword
	}
	return admin, nil
}

// ListUsers 分页查询用户，带专业类别名
func (s *AdminService) ListUsers(ctx context.Context, keyword string, page, size int) ([]repository.AdminUserRow, int64, error) {
	page, size = clampPage(page, size)
	return s.users.ListPaged(ctx, keyword, page, size)
}

// UpdateUser 改用户名/专业方向
func (s *AdminService) UpdateUser(ctx context.Context, userID int64, username string, majorTypeID *int) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("用户名不能为空")
	}
	taken, err := s.users.UsernameTaken(ctx, username, userID)
	if err != nil {
		return fmt.Errorf("查询用户名失败: %w", err)
	}
	if taken {
		return ErrUsernameExists
	}
	if err := s.users.AdminUpdate(ctx, userID, username, majorTypeID); err != nil {
		return fmt.Errorf("更新用户失败: %w", err)
	}
	return nil
}

// DeleteUser 连带删除用户的错题、计划与学生号映射
func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("删除用户失败: %w", err)
	}
	slog.Info("管理员删除用户", "user_id", userID)
	return nil
}

// ListCourses 分页搜索课程
func (s *AdminService) ListCourses(ctx context.Context, keyword, mode string, page, size int) ([]repository.CourseRow, int64, error) {
	page, size = clampPage(page, size)
	if mode != "type" {
		mode = "name"
	}
	return s.courses.ListPaged(ctx, keyword, mode, page, size)
}

// UpdateCourseURL 维护课程跳转链接
func (s *AdminService) UpdateCourseURL(ctx context.Context, courseIndex int, url string) error {
	if err := s.courses.UpdateURL(ctx, courseIndex, url); err != nil {
		return fmt.Errorf("更新课程链接失败: %w", err)
	}
	return nil
}

// CreateCourseType 新建课程类别并使类别缓存失效
func (s *AdminService) CreateCourseType(ctx context.Context, typeName string) (*schema.CourseType, error) {
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return nil, fmt.Errorf("类别名称不能为空")
	}
	ct := &schema.CourseType{TypeName: typeName}
	if err := s.courses.CreateType(ctx, ct); err != nil {
		return nil, fmt.Errorf("创建课程类别失败: %w", err)
	}
	s.categories.InvalidateCache()
	return ct, nil
}

// UpdateCourseType 改名并使类别缓存失效
func (s *AdminService) UpdateCourseType(ctx context.Context, typeID int, typeName string) error {
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return fmt.Errorf("类别名称不能为空")
	}
	if err := s.courses.UpdateType(ctx, typeID, typeName); err != nil {
		return fmt.Errorf("更新课程类别失败: %w", err)
	}
	s.categories.InvalidateCache()
	return nil
}

// DeleteCourseType 删除类别并使类别缓存失效
func (s *AdminService) DeleteCourseType(ctx context.Context, typeID int) error {
	if err := s.courses.DeleteType(ctx, typeID); err != nil {
		return fmt.Errorf("删除课程类别失败: %w", err)
	}
	s.categories.InvalidateCache()
	return nil
}

// ListQuestions 分页搜索题库
func (s *AdminService) ListQuestions(ctx context.Context, keyword string, page, size int) ([]schema.CourseQuestion, int64, error) {
	page, size = clampPage(page, size)
	return s.questions.ListPaged(ctx, keyword, page, size)
}

// CreateQuestion 新增题目
func (s *AdminService) CreateQuestion(ctx context.Context, q *schema.CourseQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("题干不能为空")
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return fmt.Errorf("创建题目失败: %w", err)
	}
	return nil
}

// UpdateQuestion 更新题目内容
func (s *AdminService) UpdateQuestion(ctx context.Context, id int64, question, options, answer, explanation string) error {
	if err := s.questions.Update(ctx, id, question, options, answer, explanation); err != nil {
		return fmt.Errorf("更新题目失败: %w", err)
	}
	return nil
}

// DeleteQuestion 删除题目
func (s *AdminService) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除题目失败: %w", err)
	}
	return nil
}

// ListWrongQuestions 全站错题巡查
func (s *AdminService) ListWrongQuestions(ctx context.Context, keyword string, page, size int) ([]repository.AdminWrongQuestionRow, int64, error) {
	page, size = clampPage(page, size)
	return s.wrongs.AdminListPaged(ctx, keyword, page, size)
}

// DeleteWrongQuestion 不带用户作用域地删错题记录
func (s *AdminService) DeleteWrongQuestion(ctx context.Context, id int64) error {
	if err := s.wrongs.AdminDelete(ctx, id); err != nil {
		return fmt.Errorf("删除错题记录失败: %w", err)
	}
	return nil
}

// ListPlans 全站计划巡查
func (s *AdminService) ListPlans(ctx context.Context, keyword string, page, size int) ([]repository.AdminPlanRow, int64, error) {
	page, size = clampPage(page, size)
	return s.plans.AdminListPaged(ctx, keyword, page, size)
}

// UpdatePlan 不带用户作用域地更新计划
func (s *AdminService) UpdatePlan(ctx context.Context, planID int64, in PlanInput) error {
	plan, err := in.toSchema(0)
	if err != nil {
		return err
	}
	if err := s.plans.AdminUpdate(ctx, planID, plan); err != nil {
		return fmt.Errorf("更新学习计划失败: %w", err)
	}
	return nil
}

// DeletePlan 不带用户作用域地删除计划
func (s *AdminService) DeletePlan(ctx context.Context, planID int64) error {
	if err := s.plans.AdminDelete(ctx, planID); err != nil {
		return fmt.Errorf("删除学习计划失败: %w", err)
	}
	return nil
}

func clampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	return page, size
}
