// Package handler 承载 HTTP 接口层：路由注册、参数解析和错误映射。
// 业务逻辑全部在 internal/service，这里只做薄转发。
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuqie6/StudyPath/internal/eventbus"
	"github.com/yuqie6/StudyPath/internal/pkg/config"
	"github.com/yuqie6/StudyPath/internal/service"
)

type API struct {
	cfg        *config.Config
	hub        *eventbus.Hub
	auth       *service.AuthService
	categories *service.CategoryService
	courses    *service.CourseService
	questions  *service.QuestionService
	plans      *service.PlanService
	wrongs     *service.WrongBookService
	recommend  *service.RecommendService
	admin      *service.AdminService
	startTime  time.Time
}

func NewAPI(
	cfg *config.Config,
	hub *eventbus.Hub,
	auth *service.AuthService,
	categories *service.CategoryService,
	courses *service.CourseService,
	questions *service.QuestionService,
	plans *service.PlanService,
	wrongs *service.WrongBookService,
	recommend *service.RecommendService,
	admin *service.AdminService,
) *API {
	return &API{
		cfg:        cfg,
		hub:        hub,
		auth:       auth,
		categories: categories,
		courses:    courses,
		questions:  questions,
		plans:      plans,
		wrongs:     wrongs,
		recommend:  recommend,
		admin:      admin,
		startTime:  time.Now(),
	}
}

// Register 挂载全部路由
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.handleHealth)
	mux.HandleFunc("/api/events", a.handleSSE)

	mux.HandleFunc("/api/auth/register", a.wrapPOST(a.handleRegister))
	mux.HandleFunc("/api/auth/login", a.wrapPOST(a.handleLogin))

	mux.HandleFunc("/api/user/info", a.wrapGET(a.handleUserInfo))
	mux.HandleFunc("/api/user/major-type", a.wrapPOST(a.handleMajorType))
	mux.HandleFunc("/api/user/profile", a.wrapPOST(a.handleProfileUpdate))
	mux.HandleFunc("/api/user/password", a.wrapPOST(a.handlePasswordChange))
	mux.HandleFunc("/api/user/avatar", a.wrapPOST(a.handleAvatarUpload))

	mux.HandleFunc("/api/recommendations", a.wrapGET(a.handleRecommendations))
	mux.HandleFunc("/api/interactions", a.wrapPOST(a.handleInteraction))
	mux.HandleFunc("/api/evaluation", a.wrapGET(a.handleEvaluation))

	mux.HandleFunc("/api/courses", a.wrapGET(a.handleCourses))
	mux.HandleFunc("/api/courses/paged", a.wrapGET(a.handleCoursesPaged))
	mux.HandleFunc("/api/course-types", a.wrapGET(a.handleCourseTypes))

	mux.HandleFunc("/api/questions", a.wrapGET(a.handleQuestions))
	mux.HandleFunc("/api/questions/by-category", a.wrapGET(a.handleQuestionsByCategory))

	mux.HandleFunc("/api/plans", a.wrapAny(a.handlePlans))
	mux.HandleFunc("/api/plans/update", a.wrapPOST(a.handlePlanUpdate))
	mux.HandleFunc("/api/plans/delete", a.wrapPOST(a.handlePlanDelete))

	mux.HandleFunc("/api/wrong-questions", a.wrapAny(a.handleWrongQuestions))
	mux.HandleFunc("/api/wrong-questions/paged", a.wrapGET(a.handleWrongQuestionsPaged))
	mux.HandleFunc("/api/wrong-questions/count", a.wrapGET(a.handleWrongQuestionCount))
	mux.HandleFunc("/api/wrong-questions/by-category", a.wrapGET(a.handleWrongQuestionsByCategory))
	mux.HandleFunc("/api/wrong-questions/delete", a.wrapPOST(a.handleWrongQuestionDelete))

	mux.HandleFunc("/api/admin/login", a.wrapPOST(a.handleAdminLogin))
	mux.HandleFunc("/api/admin/users", a.wrapGET(a.handleAdminUsers))
	mux.HandleFunc("/api/admin/users/update", a.wrapPOST(a.handleAdminUserUpdate))
	mux.HandleFunc("/api/admin/users/delete", a.wrapPOST(a.handleAdminUserDelete))
	mux.HandleFunc("/api/admin/courses", a.wrapGET(a.handleAdminCourses))
	mux.HandleFunc("/api/admin/courses/url", a.wrapPOST(a.handleAdminCourseURL))
	mux.HandleFunc("/api/admin/course-types", a.wrapAny(a.handleAdminCourseTypes))
	mux.HandleFunc("/api/admin/course-types/update", a.wrapPOST(a.handleAdminCourseTypeUpdate))
	mux.HandleFunc("/api/admin/course-types/delete", a.wrapPOST(a.handleAdminCourseTypeDelete))
	mux.HandleFunc("/api/admin/questions", a.wrapAny(a.handleAdminQuestions))
	mux.HandleFunc("/api/admin/questions/update", a.wrapPOST(a.handleAdminQuestionUpdate))
	mux.HandleFunc("/api/admin/questions/delete", a.wrapPOST(a.handleAdminQuestionDelete))
	mux.HandleFunc("/api/admin/wrong-questions", a.wrapGET(a.handleAdminWrongQuestions))
	mux.HandleFunc("/api/admin/wrong-questions/delete", a.wrapPOST(a.handleAdminWrongQuestionDelete))
	mux.HandleFunc("/api/admin/plans", a.wrapGET(a.handleAdminPlans))
	mux.HandleFunc("/api/admin/plans/update", a.wrapPOST(a.handleAdminPlanUpdate))
	mux.HandleFunc("/api/admin/plans/delete", a.wrapPOST(a.handleAdminPlanDelete))
}

func (a *API) wrapGET(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *API) wrapPOST(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (a *API) wrapAny(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { fn(w, r) }
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       a.cfg.App.Name,
		"version":    a.cfg.App.Version,
		"started_at": a.startTime.Format(time.RFC3339),
	})
}

func (a *API) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "stream not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	sub := a.hub.Subscribe(ctx, 32)

	_, _ = io.WriteString(w, "event: ready\n")
	_, _ = io.WriteString(w, "data: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, "event: ping\n")
			_, _ = io.WriteString(w, "data: {}\n\n")
			flusher.Flush()
		case evt, ok := <-sub:
			if !ok {
				return
			}
			b, _ := json.Marshal(evt)
			_, _ = io.WriteString(w, "event: "+sanitizeSSEName(evt.Type)+"\n")
			_, _ = io.WriteString(w, "data: ")
			_, _ = w.Write(b)
			_, _ = io.WriteString(w, "\n\n")
			flusher.Flush()
		}
	}
}

func sanitizeSSEName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return "message"
	}
	n = strings.ReplaceAll(n, "\n", "")
	n = strings.ReplaceAll(n, "\r", "")
	return n
}

// ========== 读写工具 ==========

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func readJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return dec.Decode(out)
}

func queryInt64(r *http.Request, key string) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func queryInt(r *http.Request, key string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func queryBool(r *http.Request, key string, def bool) bool {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
