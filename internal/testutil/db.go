package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/yuqie6/StudyPath/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB 打开内存 SQLite 并自动迁移所有表
// TranslateError 与生产配置保持一致，唯一键冲突的测试依赖它。
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&schema.User{},
		&schema.Admin{},
		&schema.Student{},
		&schema.UserStudentMap{},
		&schema.Course{},
		&schema.CourseType{},
		&schema.Interaction{},
		&schema.CourseQuestion{},
		&schema.WrongQuestion{},
		&schema.StudyPlan{},
		&schema.SchemaMeta{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
