package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuqie6/StudyPath/internal/schema"
	"gorm.io/gorm"
)

// UserRepository 用户仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建仓储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *schema.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("创建用户失败: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取用户，不存在返回 nil
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*schema.User, error) {
	var user schema.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户，不存在返回 nil
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*schema.User, error) {
	var user schema.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

// UsernameTaken 用户名是否已被其他用户占用
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeUserID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&schema.User{}).
		Where("username = ? AND id <> ?", username, excludeUserID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询用户名失败: %w", err)
	}
	return count > 0, nil
}

// UpdateAvatar 更新头像
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarPath string) error {
	err := r.db.WithContext(ctx).Model(&schema.User{}).
		Where("id = ?", userID).
		Update("avatar", avatarPath).Error
	if err != nil {
		return fmt.Errorf("更新头像失败: %w", err)
	}
	return nil
}

// UpdateMajorType 更新专业类别
func (r *UserRepository) UpdateMajorType(ctx context.Context, userID int64, majorTypeID *int) error {
	err := r.db.WithContext(ctx).Model(&schema.User{}).
		Where("id = ?", userID).
		Update("major_type_id", majorTypeID).Error
	if err != nil {
		return fmt.Errorf("更新专业类别失败: %w", err)
	}
	return nil
}

// UpdateProfile 更新用户名与专业类别
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, username string, majorTypeID *int) error {
	err := r.db.WithContext(ctx).Model(&schema.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"username": username, "major_type_id": majorTypeID}).Error
	if err != nil {
		return fmt.Errorf("更新用户资料失败: %w", err)
	}
	return nil
}

// UpdatePasswordHash 更新密码散列
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	err := r.db.WithContext(ctx).Model(&schema.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
	if err != nil {
		return fmt.Errorf("更新密码失败: %w", err)
	}
	return nil
}

// AdminUserRow 后台用户列表行（带专业类别名称）
type AdminUserRow struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Avatar      string  `json:"avatar"`
	MajorTypeID *int    `json:"majorTypeId"`
	TypeName    *string `json:"typeName"`
	CreatedAt   string  `json:"createdAt"`
}

// ListPaged 后台分页查询用户
func (r *UserRepository) ListPaged(ctx context.Context, keyword string, page, size int) ([]AdminUserRow, int64, error) {
	q := r.db.WithContext(ctx).Model(&schema.User{})
	if keyword != "" {
		q = q.Where("username LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计用户失败: %w", err)
	}

	var rows []AdminUserRow
	err := q.Select("users.id, users.username, users.avatar, users.major_type_id, t.type_name, users.created_at").
		Joins("LEFT JOIN course_types t ON users.major_type_id = t.type_id").
		Order("users.id DESC").
		Limit(size).Offset((page - 1) * size).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询用户列表失败: %w", err)
	}
	return rows, total, nil
}

// AdminUpdate 后台更新用户
func (r *UserRepository) AdminUpdate(ctx context.Context, userID int64, username string, majorTypeID *int) error {
	return r.UpdateProfile(ctx, userID, username, majorTypeID)
}

// Delete 删除用户及其关联数据
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&schema.WrongQuestion{}).Error; err != nil {
			return fmt.Errorf("删除错题失败: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&schema.StudyPlan{}).Error; err != nil {
			return fmt.Errorf("删除学习计划失败: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&schema.UserStudentMap{}).Error; err != nil {
			return fmt.Errorf("删除学生号映射失败: %w", err)
		}
		if err := tx.Where("id = ?", userID).Delete(&schema.User{}).Error; err != nil {
			return fmt.Errorf("删除用户失败: %w", err)
		}
		return nil
	})
}
