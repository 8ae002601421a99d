package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/testutil"
)

// plainHasher 测试用明文"散列"，避免 bcrypt 拖慢用例
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }
func (plainHasher) Verify(hashed, password string) bool {
	return strings.TrimPrefix(hashed, "plain:") == password
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.OpenTestDB(t)
	users := repository.NewUserRepository(db)
	identity := NewIdentityService(repository.NewStudentMapRepository(db))
	return NewAuthService(users, identity, plainHasher{})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "张三", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("注册应分配用户 ID")
	}
	if user.PasswordHash == "secret" {
		t.Fatal("密码不得明文入库")
	}

	got, err := svc.Login(ctx, "张三", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("登录取回的用户不一致: %d vs %d", got.ID, user.ID)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "李四", "a"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register(ctx, "李四", "b")
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("重名注册应返回 ErrUsernameExists，得到 %v", err)
	}
}

func TestRegisterAllocatesStudentMapping(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := repository.NewUserRepository(db)
	maps := repository.NewStudentMapRepository(db)
	svc := NewAuthService(users, NewIdentityService(maps), plainHasher{})
	ctx := context.Background()

	user, err := svc.Register(ctx, "王五", "pw")
	if err != nil {
		t.Fatal(err)
	}
	stuID, err := maps.GetStuID(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stuID == "" {
		t.Fatal("注册时应顺手分配学生号")
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "赵六", "right"); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, "不存在", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("未知用户应返回 ErrUserNotFound，得到 %v", err)
	}
	if _, err := svc.Login(ctx, "赵六", "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("错误密码应返回 ErrWrongPassword，得到 %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "周七", "old")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "bad", "new"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("旧密码错误应拒绝: %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "old", "new"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, "周七", "new"); err != nil {
		t.Fatalf("新密码登录失败: %v", err)
	}
	if _, err := svc.Login(ctx, "周七", "old"); err == nil {
		t.Fatal("旧密码应失效")
	}
}

func TestUpdateProfileRejectsTakenName(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "甲", "pw"); err != nil {
		t.Fatal(err)
	}
	u2, err := svc.Register(ctx, "乙", "pw")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateProfile(ctx, u2.ID, "甲", nil); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("改成已占用的用户名应拒绝: %v", err)
	}

	// 改回自己的名字不算冲突
	major := 3
	updated, err := svc.UpdateProfile(ctx, u2.ID, "乙", &major)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.MajorTypeID == nil || *updated.MajorTypeID != 3 {
		t.Fatalf("专业方向未更新: %v", updated.MajorTypeID)
	}
}

func TestRegisterConcurrentMappings(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	// 顺序注册多个用户，学生号应不重复
	seen := make(map[string]int64)
	db := svc.identity.maps
	for i := 0; i < 5; i++ {
		user, err := svc.Register(ctx, fmt.Sprintf("用户%d", i), "pw")
		if err != nil {
			t.Fatal(err)
		}
		stuID, err := db.GetStuID(ctx, user.ID)
		if err != nil {
			t.Fatal(err)
		}
		if prev, dup := seen[stuID]; dup {
			t.Fatalf("学生号 %s 同时发给了用户 %d 和 %d", stuID, prev, user.ID)
		}
		seen[stuID] = user.ID
	}
}
