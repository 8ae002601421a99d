// Package bootstrap 负责装配核心依赖：配置、数据库、仓储、外部客户端与服务。
package bootstrap

import (
	"context"
	"time"

	"github.com/yuqie6/StudyPath/internal/eventbus"
	"github.com/yuqie6/StudyPath/internal/pkg/config"
	"github.com/yuqie6/StudyPath/internal/pkg/hash"
	"github.com/yuqie6/StudyPath/internal/recommender"
	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/service"
)

type Core struct {
	Cfg *config.Config
	DB  *repository.Database
	Hub *eventbus.Hub

	Repos struct {
		User       *repository.UserRepository
		StudentMap *repository.StudentMapRepository
		Course     *repository.CourseRepository
		Question   *repository.QuestionRepository
		Wrong      *repository.WrongQuestionRepository
		Plan       *repository.PlanRepository
		Admin      *repository.AdminRepository
	}

	Services struct {
		Identity   *service.IdentityService
		Categories *service.CategoryService
		Ranker     *service.PopularityRanker
		Recommend  *service.RecommendService
		Auth       *service.AuthService
		Courses    *service.CourseService
		Questions  *service.QuestionService
		Plans      *service.PlanService
		WrongBook  *service.WrongBookService
		Admin      *service.AdminService
	}

	Clients struct {
		Recommender *recommender.Client
	}
}

// NewCore 构建核心依赖（不启动 HTTP 监听）
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.App.LogLevel)

	db, err := repository.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	c := &Core{Cfg: cfg, DB: db, Hub: eventbus.NewHub()}

	c.Repos.User = repository.NewUserRepository(db.DB)
	c.Repos.StudentMap = repository.NewStudentMapRepository(db.DB)
	c.Repos.Course = repository.NewCourseRepository(db.DB)
	c.Repos.Question = repository.NewQuestionRepository(db.DB)
	c.Repos.Wrong = repository.NewWrongQuestionRepository(db.DB)
	c.Repos.Plan = repository.NewPlanRepository(db.DB)
	c.Repos.Admin = repository.NewAdminRepository(db.DB)

	c.Clients.Recommender = recommender.NewClient(&recommender.Config{
		BaseURL: cfg.Recommender.BaseURL,
		Timeout: time.Duration(cfg.Recommender.TimeoutSec) * time.Second,
	})

	hasher := hash.NewBcryptHasher(cfg.Auth.BcryptCost)

	c.Services.Identity = service.NewIdentityService(c.Repos.StudentMap)
	c.Services.Categories = service.NewCategoryService(c.Repos.Course, c.Repos.User)
	c.Services.Ranker = service.NewPopularityRanker(c.Repos.Course)
	c.Services.Recommend = service.NewRecommendService(
		c.Services.Identity,
		c.Services.Categories,
		c.Services.Ranker,
		c.Repos.Course,
		c.Clients.Recommender,
		c.Hub,
		cfg.Recommender.OverFetch,
	)
	c.Services.Auth = service.NewAuthService(c.Repos.User, c.Services.Identity, hasher)
	c.Services.Courses = service.NewCourseService(c.Repos.Course, c.Services.Categories)
	c.Services.Questions = service.NewQuestionService(c.Repos.Question, c.Services.Categories)
	c.Services.Plans = service.NewPlanService(c.Repos.Plan)
	c.Services.WrongBook = service.NewWrongBookService(c.Repos.Wrong, c.Hub)
	c.Services.Admin = service.NewAdminService(
		c.Repos.Admin,
		c.Repos.User,
		c.Repos.Course,
		c.Repos.Question,
		c.Repos.Wrong,
		c.Repos.Plan,
		c.Services.Categories,
		hasher,
	)

	if err := c.Services.Admin.EnsureDefaultAdmin(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// Close 关闭核心依赖资源
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
