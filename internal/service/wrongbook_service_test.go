package service

import (
	"context"
	"testing"

	"github.com/yuqie6/StudyPath/internal/eventbus"
	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/schema"
	"github.com/yuqie6/StudyPath/internal/testutil"
)

func newWrongBook(t *testing.T) (*WrongBookService, *repository.WrongQuestionRepository) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	repo := repository.NewWrongQuestionRepository(db)
	return NewWrongBookService(repo, eventbus.NewHub()), repo
}

func qid(v int64) *int64 { return &v }

func TestRecordFirstWrongCreatesEntry(t *testing.T) {
	svc, _ := newWrongBook(t)
	ctx := context.Background()

	count, err := svc.Record(ctx, RecordRequest{
		UserID:       1,
		QuestionID:   qid(10),
		QuestionText: "1+1=?",
		CourseName:   "高等数学",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if count != 1 {
		t.Fatalf("首次答错 error_count 应为 1，得到 %d", count)
	}
}

func TestRecordRepeatIncrementsById(t *testing.T) {
	svc, _ := newWrongBook(t)
	ctx := context.Background()

	req := RecordRequest{UserID: 1, QuestionID: qid(10), QuestionText: "1+1=?"}
	for want := 1; want <= 3; want++ {
		count, err := svc.Record(ctx, req)
		if err != nil {
			t.Fatalf("Record #%d: %v", want, err)
		}
		if count != want {
			t.Fatalf("第 %d 次答错应返回 %d，得到 %d", want, want, count)
		}
	}

	got, err := svc.CountFor(ctx, 1, qid(10), "")
	if err != nil {
		t.Fatalf("CountFor: %v", err)
	}
	if got != 3 {
		t.Fatalf("CountFor = %d，期望 3", got)
	}
}

func TestRecordByIdNeverFallsBackToText(t *testing.T) {
	svc, _ := newWrongBook(t)
	ctx := context.Background()

	// 先按题干建档（无 question_id）
	if _, err := svc.Record(ctx, RecordRequest{UserID: 1, QuestionText: "1+1=?"}); err != nil {
		t.Fatal(err)
	}

	// 同题干但这次带 question_id：必须建新档而不是累加旧档
	count, err := svc.Record(ctx, RecordRequest{UserID: 1, QuestionID: qid(10), QuestionText: "1+1=?"})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("带 question_id 的上报不应回退到题干匹配，期望新档计 1，得到 %d", count)
	}

	// 两个档案互不影响
	byText, err := svc.CountFor(ctx, 1, nil, "1+1=?")
	if err != nil {
		t.Fatal(err)
	}
	if byText != 1 {
		t.Fatalf("题干档计数被污染: %d", byText)
	}
}

func TestRecordByTextWhenNoId(t *testing.T) {
	svc, _ := newWrongBook(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, RecordRequest{UserID: 1, QuestionText: "永恒轮回是谁提出的？"}); err != nil {
		t.Fatal(err)
	}
	count, err := svc.Record(ctx, RecordRequest{UserID: 1, QuestionText: "永恒轮回是谁提出的？"})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("同题干无 ID 应累加到 2，得到 %d", count)
	}
}

func TestRecordScopedByUser(t *testing.T) {
	svc, _ := newWrongBook(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, RecordRequest{UserID: 1, QuestionID: qid(10)}); err != nil {
		t.Fatal(err)
	}
	count, err := svc.Record(ctx, RecordRequest{UserID: 2, QuestionID: qid(10)})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("不同用户的同一题应各自建档，得到 %d", count)
	}
}

func TestCountForMissReturnsZero(t *testing.T) {
	svc, _ := newWrongBook(t)

	count, err := svc.CountFor(context.Background(), 1, qid(404), "")
	if err != nil {
		t.Fatalf("CountFor 查不到不应报错: %v", err)
	}
	if count != 0 {
		t.Fatalf("查不到应返回 0，得到 %d", count)
	}
}

func TestRecordPublishesEvent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	hub := eventbus.NewHub()
	svc := NewWrongBookService(repository.NewWrongQuestionRepository(db), hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := hub.Subscribe(ctx, 4)

	if _, err := svc.Record(context.Background(), RecordRequest{UserID: 1, QuestionID: qid(1)}); err != nil {
		t.Fatal(err)
	}
	evt := <-sub
	if evt.Type != "wrong_question.recorded" {
		t.Errorf("事件类型 = %s", evt.Type)
	}
}

func TestDeleteScopedByUser(t *testing.T) {
	svc, repo := newWrongBook(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, RecordRequest{UserID: 1, QuestionID: qid(10)}); err != nil {
		t.Fatal(err)
	}
	entry, err := repo.GetByQuestionID(ctx, 1, 10)
	if err != nil || entry == nil {
		t.Fatalf("取回记录失败: %v", err)
	}

	// 别的用户删不掉
	if err := svc.Delete(ctx, entry.ID, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	still, err := repo.GetByQuestionID(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if still == nil {
		t.Fatal("跨用户删除不应生效")
	}

	if err := svc.Delete(ctx, entry.ID, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := repo.GetByQuestionID(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Fatal("本人删除应生效")
	}
}

// raceWrongStore 在一次查找返回后插入一笔竞争写，复现上报链路的交错
type raceWrongStore struct {
	WrongQuestionStore
	afterLookup func()
}

func (s *raceWrongStore) GetByQuestionID(ctx context.Context, userID, questionID int64) (*schema.WrongQuestion, error) {
	wq, err := s.WrongQuestionStore.GetByQuestionID(ctx, userID, questionID)
	if s.afterLookup != nil {
		hook := s.afterLookup
		s.afterLookup = nil // 只插一次，竞争方自身的查找不再触发
		hook()
	}
	return wq, err
}

func TestRecordOverlappingLastWriterWins(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repository.NewWrongQuestionRepository(db)
	hub := eventbus.NewHub()
	ctx := context.Background()

	plain := NewWrongBookService(repo, hub)
	if _, err := plain.Record(ctx, RecordRequest{UserID: 7, QuestionID: qid(42)}); err != nil {
		t.Fatal(err)
	}

	// 查找与写入之间没有事务护栏：两次交错的上报都读到 1、都写回 2，
	// 一次累加丢失，以后写者为准。这是接受下来的语义，不是待修的缺陷。
	store := &raceWrongStore{WrongQuestionStore: repo}
	store.afterLookup = func() {
		count, err := plain.Record(ctx, RecordRequest{UserID: 7, QuestionID: qid(42)})
		if err != nil {
			t.Fatalf("竞争方 Record: %v", err)
		}
		if count != 2 {
			t.Fatalf("竞争方应读 1 写 2，得到 %d", count)
		}
	}

	count, err := NewWrongBookService(store, hub).Record(ctx, RecordRequest{UserID: 7, QuestionID: qid(42)})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if count != 2 {
		t.Fatalf("后写者用自己读到的 1+1 覆盖，应返回 2，得到 %d", count)
	}

	final, err := plain.CountFor(ctx, 7, qid(42), "")
	if err != nil {
		t.Fatal(err)
	}
	if final != 2 {
		t.Fatalf("两次上报只留下一次累加，期望 2，得到 %d", final)
	}
}
