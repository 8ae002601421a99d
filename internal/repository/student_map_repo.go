package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuqie6/StudyPath/internal/schema"
	"gorm.io/gorm"
)

// StudentMapRepository 学生号池与用户映射仓储
type StudentMapRepository struct {
	db *gorm.DB
}

// NewStudentMapRepository 创建仓储
func NewStudentMapRepository(db *gorm.DB) *StudentMapRepository {
	return &StudentMapRepository{db: db}
}

// GetStuID 查询用户映射的学生号，未映射返回空串
func (r *StudentMapRepository) GetStuID(ctx context.Context, userID int64) (string, error) {
	var m schema.UserStudentMap
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("查询学生号映射失败: %w", err)
	}
	return m.StuID, nil
}

// AllStuIDs 返回号池中全部已占用的学生号
func (r *StudentMapRepository) AllStuIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&schema.Student{}).Pluck("stu_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("查询学生号池失败: %w", err)
	}
	return ids, nil
}

// CreateStudent 向号池写入一个学生号
// 被其他分配抢先占用时返回 gorm.ErrDuplicatedKey。
func (r *StudentMapRepository) CreateStudent(ctx context.Context, stuID string) error {
	err := r.db.WithContext(ctx).Create(&schema.Student{StuID: stuID}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("写入学生号池失败: %w", err)
	}
	return nil
}

// CreateMapping 建立用户到学生号的映射
// user_id 唯一约束冲突时返回 gorm.ErrDuplicatedKey，由调用方回读仲裁。
func (r *StudentMapRepository) CreateMapping(ctx context.Context, userID int64, stuID string) error {
	err := r.db.WithContext(ctx).Create(&schema.UserStudentMap{UserID: userID, StuID: stuID}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("写入学生号映射失败: %w", err)
	}
	return nil
}
