package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/yuqie6/StudyPath/internal/repository"
)

// IdentityService 内部用户与推荐引擎学生号之间的桥
// 映射懒创建、只增不删：一个用户一生只拿一个学生号。
type IdentityService struct {
	maps StudentMapStore
}

// NewIdentityService 创建服务
func NewIdentityService(maps StudentMapStore) *IdentityService {
	return &IdentityService{maps: maps}
}

// 并发分配冲突时的重扫上限。冲突只在两类写竞争时出现，
// 连续撞满说明号池写入本身出了问题，放弃并报错。
const maxAllocateAttempts = 5

// EnsureMapping 返回用户的学生号，没有则当场分配
// 同一用户并发首次调用由 user_id 唯一约束仲裁：输掉的一方回读赢家
// 写入的映射，绝不给同一用户发第二个号。
func (s *IdentityService) EnsureMapping(ctx context.Context, userID int64) (string, error) {
	stuID, err := s.maps.GetStuID(ctx, userID)
	if err != nil {
		return "", err
	}
	if stuID != "" {
		return stuID, nil
	}

	if err := s.allocate(ctx, userID); err != nil {
		return "", err
	}

	stuID, err = s.maps.GetStuID(ctx, userID)
	if err != nil {
		return "", err
	}
	if stuID == "" {
		return "", fmt.Errorf("%w: 用户 %d 分配后仍无映射", ErrNoExternalIdentity, userID)
	}
	return stuID, nil
}

// allocate 扫描号池，取最小的未占用正整数并落库
// 线性扫描是有意为之：号池只增不删，空洞要回填。用户量上来后
// 这里是热点，见 DESIGN.md。
func (s *IdentityService) allocate(ctx context.Context, userID int64) error {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		existing, err := s.maps.AllStuIDs(ctx)
		if err != nil {
			return err
		}
		used := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			used[id] = struct{}{}
		}

		chosen := ""
		for n := 1; ; n++ {
			candidate := strconv.Itoa(n)
			if _, ok := used[candidate]; !ok {
				chosen = candidate
				break
			}
		}

		if err := s.maps.CreateStudent(ctx, chosen); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				// 号被别的分配抢走了，重扫号池
				slog.Debug("学生号被并发占用，重试", "stu_id", chosen, "attempt", attempt+1)
				continue
			}
			return err
		}

		if err := s.maps.CreateMapping(ctx, userID, chosen); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				// 同一用户的并发分配已经赢了，回读即可
				slog.Debug("用户映射已存在，放弃本次分配", "user_id", userID)
				return nil
			}
			return err
		}

		slog.Info("分配学生号", "user_id", userID, "stu_id", chosen)
		return nil
	}
	return fmt.Errorf("%w: 用户 %d 分配学生号连续冲突", ErrNoExternalIdentity, userID)
}
