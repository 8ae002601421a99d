package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuqie6/StudyPath/internal/schema"
	"gorm.io/gorm"
)

// AdminRepository 管理员账号仓储
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建仓储
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Count 统计管理员数量
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&schema.Admin{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计管理员失败: %w", err)
	}
	return count, nil
}

// Create 创建管理员
func (r *AdminRepository) Create(ctx context.Context, admin *schema.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("创建管理员失败: %w", err)
	}
	return nil
}

// GetByUsername 根据用户名获取管理员，不存在返回 nil
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*schema.Admin, error) {
	var admin schema.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询管理员失败: %w", err)
	}
	return &admin, nil
}
