package repository

import (
	"context"
	"testing"
	"time"

	"github.com/yuqie6/StudyPath/internal/schema"
	"github.com/yuqie6/StudyPath/internal/testutil"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	types := []schema.CourseType{
		{TypeID: 1, TypeName: "高等数学"},
		{TypeID: 2, TypeName: "大学英语"},
	}
	courses := []schema.Course{
		{CourseIndex: 1, Name: "高数上", TypeID: 1},
		{CourseIndex: 2, Name: "高数下", TypeID: 1},
		{CourseIndex: 3, Name: "英语听力", TypeID: 2},
	}
	if err := db.Create(&types).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&courses).Error; err != nil {
		t.Fatal(err)
	}
}

func TestPopularByTypeIDsOrdering(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedCatalog(t, db)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	// 课程 2 被点 3 次，课程 3 被点 1 次，课程 1 零交互
	for _, pair := range [][2]string{{"a", "2"}, {"b", "2"}, {"c", "2"}, {"a", "3"}} {
		rec := schema.Interaction{StuID: pair[0], CourseIndex: int(pair[1][0] - '0'), Time: time.Now()}
		if err := db.Create(&rec).Error; err != nil {
			t.Fatal(err)
		}
	}

	rows, err := repo.PopularByTypeIDs(ctx, []int{1, 2}, 10)
	if err != nil {
		t.Fatalf("PopularByTypeIDs: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("应返回 3 门课，实际 %d", len(rows))
	}
	wantOrder := []int{2, 3, 1} // 热度 3 > 1 > 0
	for i, want := range wantOrder {
		if rows[i].CourseIndex != want {
			t.Errorf("第 %d 位应是课程 %d，实际 %d（热度 %d）",
				i+1, want, rows[i].CourseIndex, rows[i].Popularity)
		}
	}
}

func TestPopularByTypeIDsTiebreakByIndex(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedCatalog(t, db)
	repo := NewCourseRepository(db)

	// 零交互：全部同热度，应按课程编号升序
	rows, err := repo.PopularByTypeIDs(context.Background(), []int{1, 2}, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CourseIndex <= rows[i-1].CourseIndex {
			t.Fatalf("同热度应按编号升序: %v 之后出现 %v", rows[i-1].CourseIndex, rows[i].CourseIndex)
		}
	}
}

func TestPopularByTypeIDsEmptySet(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedCatalog(t, db)
	repo := NewCourseRepository(db)

	rows, err := repo.PopularByTypeIDs(context.Background(), nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("空类别集合应返回空列表，实际 %d 条", len(rows))
	}
}

func TestRecordInteractionIgnoresDuplicates(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedCatalog(t, db)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.RecordInteraction(ctx, "1", 2); err != nil {
			t.Fatalf("第 %d 次 RecordInteraction: %v", i+1, err)
		}
	}

	var count int64
	if err := db.Model(&schema.Interaction{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("重复点击应只留一条，实际 %d", count)
	}
}

func TestRecentTypeNameByUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedCatalog(t, db)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	if err := db.Create(&schema.UserStudentMap{UserID: 1, StuID: "1"}).Error; err != nil {
		t.Fatal(err)
	}
	base := time.Now()
	earlier := schema.Interaction{StuID: "1", CourseIndex: 3, Time: base.Add(-time.Hour)}
	later := schema.Interaction{StuID: "1", CourseIndex: 2, Time: base}
	if err := db.Create(&earlier).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&later).Error; err != nil {
		t.Fatal(err)
	}

	name, err := repo.RecentTypeNameByUser(ctx, 1)
	if err != nil {
		t.Fatalf("RecentTypeNameByUser: %v", err)
	}
	if name != "高等数学" {
		t.Fatalf("最近一次点的是高数下，期望 高等数学，得到 %q", name)
	}

	// 无交互的用户返回空串而非错误
	name, err = repo.RecentTypeNameByUser(ctx, 999)
	if err != nil {
		t.Fatal(err)
	}
	if name != "" {
		t.Fatalf("无交互应返回空串，得到 %q", name)
	}
}

func TestTypeIDsByKeyword(t *testing.T) {
	db := testutil.OpenTestDB(t)
	seedCatalog(t, db)
	repo := NewCourseRepository(db)

	ids, err := repo.TypeIDsByKeyword(context.Background(), "数学")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("关键词 数学 应命中类别 1，得到 %v", ids)
	}

	ids, err = repo.TypeIDsByKeyword(context.Background(), "体育")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("无命中应返回空，得到 %v", ids)
	}
}
