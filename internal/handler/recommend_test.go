package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yuqie6/StudyPath/internal/eventbus"
	"github.com/yuqie6/StudyPath/internal/pkg/config"
	"github.com/yuqie6/StudyPath/internal/pkg/hash"
	"github.com/yuqie6/StudyPath/internal/recommender"
	"github.com/yuqie6/StudyPath/internal/repository"
	"github.com/yuqie6/StudyPath/internal/schema"
	"github.com/yuqie6/StudyPath/internal/service"
	"github.com/yuqie6/StudyPath/internal/testutil"
	"gorm.io/gorm"
)

// newTestAPI 用内存库拼出完整 API，推荐引擎指向给定地址
func newTestAPI(t *testing.T, upstreamURL string) (*http.ServeMux, *gorm.DB) {
	t.Helper()

	db := testutil.OpenTestDB(t)
	userRepo := repository.NewUserRepository(db)
	mapRepo := repository.NewStudentMapRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	wrongRepo := repository.NewWrongQuestionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	hub := eventbus.NewHub()
	hasher := hash.NewBcryptHasher(4)
	identity := service.NewIdentityService(mapRepo)
	categories := service.NewCategoryService(courseRepo, userRepo)
	ranker := service.NewPopularityRanker(courseRepo)
	client := recommender.NewClient(&recommender.Config{BaseURL: upstreamURL, Timeout: 2 * time.Second})
	recommend := service.NewRecommendService(identity, categories, ranker, courseRepo, client, hub, 2)

	api := NewAPI(
		&config.Config{},
		hub,
		service.NewAuthService(userRepo, identity, hasher),
		categories,
		service.NewCourseService(courseRepo, categories),
		service.NewQuestionService(questionRepo, categories),
		service.NewPlanService(planRepo),
		service.NewWrongBookService(wrongRepo, hub),
		recommend,
		service.NewAdminService(adminRepo, userRepo, courseRepo, questionRepo, wrongRepo, planRepo, categories, hasher),
	)

	mux := http.NewServeMux()
	api.Register(mux)
	return mux, db
}

type recommendResponse struct {
	Error           string             `json:"error"`
	ModelVersion    string             `json:"model_version"`
	Recommendations []recommender.Item `json:"recommendations"`
}

func getRecommendations(t *testing.T, mux *http.ServeMux, query string) (int, recommendResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations"+query, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var body recommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v, body=%s", err, rec.Body.String())
	}
	return rec.Code, body
}

func TestRecommendationsMissingUserID(t *testing.T) {
	mux, _ := newTestAPI(t, "http://127.0.0.1:1")

	code, _ := getRecommendations(t, mux, "")
	if code != http.StatusBadRequest {
		t.Fatalf("缺少 userId 应返回 400，得到 %d", code)
	}
}

func TestRecommendationsHappyPath(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/recommend" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model_version": "v3",
			"recommendations": [
				{"course_index": 1, "name": "高等数学", "type_id": 1, "type_name": "高等数学", "predicted_score": 0.91},
				{"course_index": 2, "name": "体育舞蹈", "type_id": 99, "type_name": "体育", "predicted_score": 0.88}
			]
		}`))
	}))
	defer upstream.Close()

	mux, db := newTestAPI(t, upstream.URL)
	seed := []any{
		&schema.User{Username: "alice", PasswordHash: "x"},
		&schema.CourseType{TypeID: 1, TypeName: "高等数学"},
		&schema.Course{CourseIndex: 1, Name: "高等数学", TypeID: 1},
	}
	for _, row := range seed {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	code, body := getRecommendations(t, mux, "?userId=1&topN=5")
	if code != http.StatusOK {
		t.Fatalf("正常链路应返回 200，得到 %d", code)
	}
	if body.ModelVersion != "v3" {
		t.Fatalf("上游附加字段应透传，得到 %q", body.ModelVersion)
	}
	if len(body.Recommendations) != 1 {
		t.Fatalf("白名单外的条目应被过滤，得到 %d 条", len(body.Recommendations))
	}
	got := body.Recommendations[0]
	if got.CourseIndex != 1 {
		t.Fatalf("保留条目应为 course_index=1，得到 %d", got.CourseIndex)
	}
	if got.Reason == "" {
		t.Fatalf("保留条目应带推荐理由")
	}
}

func TestRecommendationsUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rebuilding", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	mux, db := newTestAPI(t, upstream.URL)
	if err := db.Create(&schema.User{Username: "alice", PasswordHash: "x"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	code, body := getRecommendations(t, mux, "?userId=1")
	if code != http.StatusInternalServerError {
		t.Fatalf("上游失败应返回 500，得到 %d", code)
	}
	if body.Error == "" {
		t.Fatalf("降级响应应附诊断信息")
	}
	if len(body.Recommendations) != 0 {
		t.Fatalf("降级响应应带空推荐列表，得到 %d 条", len(body.Recommendations))
	}
}

func TestEvaluationUpstreamFailureMapsTo500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rebuilding", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	mux, _ := newTestAPI(t, upstream.URL)
	req := httptest.NewRequest(http.MethodGet, "/api/evaluation?topK=5", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("评估接口上游失败应返回 500，得到 %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("错误响应应附带 error 字段")
	}
}
