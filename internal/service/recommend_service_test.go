package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yuqie6/StudyPath/internal/eventbus"
	"github.com/yuqie6/StudyPath/internal/recommender"
	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/schema"
)

type fakeCourseStore struct {
	recentType   string
	recentErr    error
	popular      []repository.PopularCourse
	interactions []string // "stuID:courseIndex"
}

func (f *fakeCourseStore) List(ctx context.Context, limit int) ([]repository.CourseRow, error) {
	return nil, nil
}
func (f *fakeCourseStore) ListPaged(ctx context.Context, keyword, mode string, page, size int) ([]repository.CourseRow, int64, error) {
	return nil, 0, nil
}
func (f *fakeCourseStore) RecentTypeNameByUser(ctx context.Context, userID int64) (string, error) {
	return f.recentType, f.recentErr
}
func (f *fakeCourseStore) PopularByTypeIDs(ctx context.Context, typeIDs []int, limit int) ([]repository.PopularCourse, error) {
	if limit < len(f.popular) {
		return f.popular[:limit], nil
	}
	return f.popular, nil
}
func (f *fakeCourseStore) RecordInteraction(ctx context.Context, stuID string, courseIndex int) error {
	f.interactions = append(f.interactions, fmt.Sprintf("%s:%d", stuID, courseIndex))
	return nil
}

type fakeRecClient struct {
	payload   *recommender.Payload
	err       error
	lastTopN  int
	lastStuID string
}

func (f *fakeRecClient) GetRecommendations(ctx context.Context, stuID string, topN int) (*recommender.Payload, error) {
	f.lastStuID = stuID
	f.lastTopN = topN
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func (f *fakeRecClient) GetEvaluation(ctx context.Context, topK, maxUsers int) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"precision": 0.8}`), nil
}

func newRecommendHarness(t *testing.T, courses *fakeCourseStore, client *fakeRecClient) *RecommendService {
	t.Helper()
	maps := newFakeStudentMapStore()
	maps.seed("1", 1)

	identity := NewIdentityService(maps)
	categories := NewCategoryService(
		&fakeTypeStore{types: testTypes()},
		&fakeUserStore{users: map[int64]*schema.User{}},
	)
	ranker := NewPopularityRanker(courses)
	return NewRecommendService(identity, categories, ranker, courses, client, eventbus.NewHub(), 10)
}

func TestGetRecommendationsFilterTrimAnnotate(t *testing.T) {
	// 50 条候选：只有类别 1（数学）和 2（英语）过得了白名单
	items := make([]recommender.Item, 0, 50)
	for i := 1; i <= 50; i++ {
		typeID := 9 // 白名单外
		if i%5 == 0 {
			typeID = 1
		}
		if i%5 == 1 {
			typeID = 2
		}
		items = append(items, recommender.Item{
			CourseIndex:    i,
			Name:           fmt.Sprintf("课程%d", i),
			TypeID:         recommender.Int(typeID),
			TypeName:       typeNameOf(typeID),
			PredictedScore: 1.0 - float64(i)/100,
		})
	}
	client := &fakeRecClient{payload: &recommender.Payload{Recommendations: items}}
	courses := &fakeCourseStore{recentType: "高等数学"}
	svc := newRecommendHarness(t, courses, client)

	res := svc.GetRecommendations(context.Background(), 1, 5)
	if !res.OK() {
		t.Fatalf("期望正常结果，得到诊断: %s", res.Diagnostic)
	}
	got := res.Payload.Recommendations
	if len(got) != 5 {
		t.Fatalf("topN=5 应返回 5 条，实际 %d", len(got))
	}
	// 过采样：topN * overFetch
	if client.lastTopN != 50 {
		t.Errorf("应向上游请求 50 条，实际 %d", client.lastTopN)
	}
	// 上游顺序保持：过滤后前 5 条的编号应严格递增
	for i := 1; i < len(got); i++ {
		if got[i].CourseIndex <= got[i-1].CourseIndex {
			t.Errorf("过滤不应改变上游排序: %d 在 %d 之后", got[i].CourseIndex, got[i-1].CourseIndex)
		}
	}
	// 理由标注：数学匹配近期科目，英语走相似推荐
	for _, item := range got {
		switch item.TypeName {
		case "高等数学":
			if item.Reason != "与你近期学习的科目相同" {
				t.Errorf("课程%d 理由 = %q", item.CourseIndex, item.Reason)
			}
		default:
			if item.Reason != "基于相似用户兴趣推荐" {
				t.Errorf("课程%d 理由 = %q", item.CourseIndex, item.Reason)
			}
		}
	}
}

func TestGetRecommendationsFallbackWhenFiltered(t *testing.T) {
	// 上游全是白名单外的类别
	items := []recommender.Item{
		{CourseIndex: 1, Name: "体育课", TypeID: recommender.Int(9), TypeName: "体育"},
	}
	client := &fakeRecClient{payload: &recommender.Payload{Recommendations: items}}
	courses := &fakeCourseStore{popular: []repository.PopularCourse{
		{CourseIndex: 11, Name: "高数上", TypeID: 1, TypeName: "高等数学", Popularity: 30},
		{CourseIndex: 12, Name: "高数下", TypeID: 1, TypeName: "高等数学", Popularity: 10},
	}}
	svc := newRecommendHarness(t, courses, client)

	res := svc.GetRecommendations(context.Background(), 1, 10)
	if !res.OK() {
		t.Fatalf("兜底是正常路径，得到诊断: %s", res.Diagnostic)
	}
	got := res.Payload.Recommendations
	if len(got) != 2 {
		t.Fatalf("兜底应返回 2 条，实际 %d", len(got))
	}
	for _, item := range got {
		if item.Reason != "热门课程推荐" {
			t.Errorf("兜底理由 = %q", item.Reason)
		}
		if item.PredictedScore != 0.5 {
			t.Errorf("兜底分数 = %v，期望 0.5", item.PredictedScore)
		}
	}
}

func TestGetRecommendationsNoIdentity(t *testing.T) {
	maps := newFakeStudentMapStore()
	maps.beforeCreateStudent = func(chosen string) {
		maps.students[chosen] = struct{}{} // 每次分配都冲突
	}
	identity := NewIdentityService(maps)
	categories := NewCategoryService(
		&fakeTypeStore{types: testTypes()},
		&fakeUserStore{users: map[int64]*schema.User{}},
	)
	courses := &fakeCourseStore{}
	svc := NewRecommendService(identity, categories, NewPopularityRanker(courses), courses,
		&fakeRecClient{}, eventbus.NewHub(), 10)

	res := svc.GetRecommendations(context.Background(), 1, 10)
	if !res.NoIdentity {
		t.Fatal("无法分配学生号应标记 NoIdentity")
	}
	if res.Payload == nil || res.Payload.Recommendations == nil {
		t.Fatal("降级响应也必须带空推荐列表")
	}
	if len(res.Payload.Recommendations) != 0 {
		t.Fatalf("降级响应列表应为空，实际 %d 条", len(res.Payload.Recommendations))
	}
}

func TestGetRecommendationsUpstreamFailure(t *testing.T) {
	client := &fakeRecClient{err: errors.New("connection refused")}
	courses := &fakeCourseStore{}
	svc := newRecommendHarness(t, courses, client)

	res := svc.GetRecommendations(context.Background(), 1, 10)
	if res.OK() {
		t.Fatal("上游失败应降级")
	}
	if res.NoIdentity {
		t.Fatal("上游失败不是身份问题")
	}
	if !strings.Contains(res.Diagnostic, "recommender_unavailable") {
		t.Errorf("诊断信息应标明上游不可用: %s", res.Diagnostic)
	}
	if len(res.Payload.Recommendations) != 0 {
		t.Fatal("降级响应列表应为空")
	}
}

func TestGetRecommendationsPreservesExtraFields(t *testing.T) {
	raw := []byte(`{"model_version": "v3", "recommendations": [
		{"course_index": 5, "name": "高数", "type_id": 1, "type_name": "高等数学", "predicted_score": 0.9}
	]}`)
	var payload recommender.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("解析上游响应: %v", err)
	}
	client := &fakeRecClient{payload: &payload}
	svc := newRecommendHarness(t, &fakeCourseStore{}, client)

	res := svc.GetRecommendations(context.Background(), 1, 10)
	if !res.OK() {
		t.Fatalf("诊断: %s", res.Diagnostic)
	}

	out, err := json.Marshal(res.Payload)
	if err != nil {
		t.Fatalf("序列化响应: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if string(decoded["model_version"]) != `"v3"` {
		t.Errorf("上游附加字段应原样透传，得到 %s", decoded["model_version"])
	}
}

func TestRecordInteractionPublishesEvent(t *testing.T) {
	courses := &fakeCourseStore{}
	client := &fakeRecClient{}
	maps := newFakeStudentMapStore()
	maps.seed("1", 1)
	hub := eventbus.NewHub()

	identity := NewIdentityService(maps)
	categories := NewCategoryService(
		&fakeTypeStore{types: testTypes()},
		&fakeUserStore{users: map[int64]*schema.User{}},
	)
	svc := NewRecommendService(identity, categories, NewPopularityRanker(courses), courses, client, hub, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := hub.Subscribe(ctx, 4)

	if err := svc.RecordInteraction(context.Background(), 1, 42); err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if len(courses.interactions) != 1 || courses.interactions[0] != "1:42" {
		t.Fatalf("交互未落库: %v", courses.interactions)
	}
	evt := <-sub
	if evt.Type != "interaction.recorded" {
		t.Errorf("事件类型 = %s", evt.Type)
	}
}

func TestEvaluateWrapsUpstreamError(t *testing.T) {
	client := &fakeRecClient{err: errors.New("timeout")}
	svc := newRecommendHarness(t, &fakeCourseStore{}, client)

	_, err := svc.Evaluate(context.Background(), 10, 100)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("期望 ErrUpstreamUnavailable，得到 %v", err)
	}
}

func typeNameOf(typeID int) string {
	for _, t := range testTypes() {
		if t.TypeID == typeID {
			return t.TypeName
		}
	}
	return "未知类别"
}
