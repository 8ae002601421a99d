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

// AuthService 账号注册登录与个人资料维护
type AuthService struct {
	users    UserStore
	identity *IdentityService
	hasher   PasswordHasher
}

func NewAuthService(users UserStore, identity *IdentityService, hasher PasswordHasher) *AuthService {
	return &AuthService{users: users, identity: identity, hasher: hasher}
}

// Register 注册新用户
// 学生号映射在注册时就尝试建立，失败只记日志不阻断注册：
// 推荐链路首次调用时还会再补。
func (s *AuthService) Register(ctx context.Context, username, password string) (*schema.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("用户名和密码不能为空")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("密码散列失败: %w", err)
	}

	user := &schema.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	if _, err := s.identity.EnsureMapping(ctx, user.ID); err != nil {
		slog.Warn("注册时分配学生号失败，推迟到首次推荐时重试",
			"user_id", user.ID, "error", err)
	}

	slog.Info("新用户注册", "user_id", user.ID, "username", username)
	return user, nil
}

// Login 校验用户名密码
func (s *AuthService) Login(ctx context.Context, username, password string) (*schema.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// GetUserByID 查询用户资料
func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*schema.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateMajorType 设置用户专业方向（课程类别）
func (s *AuthService) UpdateMajorType(ctx context.Context, userID int64, majorTypeID *int) error {
	if err := s.users.UpdateMajorType(ctx, userID, majorTypeID); err != nil {
		return fmt.Errorf("更新专业方向失败: %w", err)
	}
	return nil
}

// UpdateProfile 改用户名和专业方向，用户名查重排除自己
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, username string, majorTypeID *int) (*schema.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("用户名不能为空")
	}

	taken, err := s.users.UsernameTaken(ctx, username, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户名失败: %w", err)
	}
	if taken {
		return nil, ErrUsernameExists
	}

	if err := s.users.UpdateProfile(ctx, userID, username, majorTypeID); err != nil {
		return nil, fmt.Errorf("更新资料失败: %w", err)
	}
	return s.GetUserByID(ctx, userID)
}

// ChangePassword 校验旧密码后换新密码
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(user.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("密码散列失败: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("更新密码失败: %w", err)
	}
	return nil
}

// UpdateAvatar 记录头像存储路径
func (s *AuthService) UpdateAvatar(ctx context.Context, userID int64, avatarPath string) error {
	if err := s.users.UpdateAvatar(ctx, userID, avatarPath); err != nil {
		return fmt.Errorf("更新头像失败: %w", err)
	}
	return nil
}
