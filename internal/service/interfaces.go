package service

import (
	"context"
	"encoding/json"

	"github.com/yuqie6/StudyPath/internal/recommender"
	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/schema"
)

// 仓储/外部依赖的最小接口集合（ISP）

type StudentMapStore interface {
	GetStuID(ctx context.Context, userID int64) (string, error)
	AllStuIDs(ctx context.Context) ([]string, error)
	CreateStudent(ctx context.Context, stuID string) error
	CreateMapping(ctx context.Context, userID int64, stuID string) error
}

type UserStore interface {
	Create(ctx context.Context, user *schema.User) error
	GetByID(ctx context.Context, userID int64) (*schema.User, error)
	GetByUsername(ctx context.Context, username string) (*schema.User, error)
	UsernameTaken(ctx context.Context, username string, excludeUserID int64) (bool, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarPath string) error
	UpdateMajorType(ctx context.Context, userID int64, majorTypeID *int) error
	UpdateProfile(ctx context.Context, userID int64, username string, majorTypeID *int) error
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}

type CourseTypeStore interface {
	ListTypes(ctx context.Context) ([]schema.CourseType, error)
	TypeIDsByKeyword(ctx context.Context, keyword string) ([]int, error)
	TypeNameByID(ctx context.Context, typeID int) (string, error)
}

type CourseStore interface {
	List(ctx context.Context, limit int) ([]repository.CourseRow, error)
	ListPaged(ctx context.Context, keyword, mode string, page, size int) ([]repository.CourseRow, int64, error)
	RecentTypeNameByUser(ctx context.Context, userID int64) (string, error)
	PopularByTypeIDs(ctx context.Context, typeIDs []int, limit int) ([]repository.PopularCourse, error)
	RecordInteraction(ctx context.Context, stuID string, courseIndex int) error
}

type QuestionStore interface {
	ListByCourse(ctx context.Context, courseID, limit int, random bool) ([]schema.CourseQuestion, error)
	ListByTypeIDs(ctx context.Context, typeIDs []int, limit int, random bool) ([]schema.CourseQuestion, error)
}

type WrongQuestionStore interface {
	GetByQuestionID(ctx context.Context, userID, questionID int64) (*schema.WrongQuestion, error)
	GetByQuestionText(ctx context.Context, userID int64, questionText string) (*schema.WrongQuestion, error)
	Create(ctx context.Context, wq *schema.WrongQuestion) error
	UpdateErrorCount(ctx context.Context, id int64, errorCount int) error
	List(ctx context.Context, userID int64, keyword string) ([]schema.WrongQuestion, error)
	ListPaged(ctx context.Context, userID int64, typeIDs []int, keyword string, page, size int) ([]schema.WrongQuestion, int64, error)
	ListByTypeIDs(ctx context.Context, userID int64, typeIDs []int, limit int) ([]schema.WrongQuestion, error)
	Delete(ctx context.Context, id, userID int64) error
}

type PlanStore interface {
	List(ctx context.Context, userID int64, status, sort string) ([]schema.StudyPlan, error)
	Create(ctx context.Context, plan *schema.StudyPlan) error
	Update(ctx context.Context, planID, userID int64, plan *schema.StudyPlan) error
	Delete(ctx context.Context, planID, userID int64) error
}

// RecommenderClient 外部推荐引擎
type RecommenderClient interface {
	GetRecommendations(ctx context.Context, stuID string, topN int) (*recommender.Payload, error)
	GetEvaluation(ctx context.Context, topK, maxUsers int) (json.RawMessage, error)
}

// PasswordHasher 口令散列器，显式注入而非包级单例
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) bool
}
