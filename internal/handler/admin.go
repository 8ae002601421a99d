package handler

import (
	"errors"
	"net/http"

	"github.com/yuqie6/StudyPath/internal/dto"
	"github.com/yuqie6/StudyPath/internal/schema"
	"github.com/yuqie6/StudyPath/internal/service"
)

func (a *API) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	admin, err := a.admin.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			writeError(w, http.StatusUnauthorized, "用户名或密码错误")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       admin.ID,
		"username": admin.Username,
	})
}

func (a *API) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 10)

	rows, total, err := a.admin.ListUsers(r.Context(), keyword, page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(rows, total, page, size))
}

func (a *API) handleAdminUserUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id 无效")
		return
	}
	var req dto.AdminUserUpdateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if err := a.admin.UpdateUser(r.Context(), userID, req.Username, req.MajorTypeID); err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			writeError(w, http.StatusConflict, "用户名已存在")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdminUserDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id 无效")
		return
	}
	if err := a.admin.DeleteUser(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdminCourses(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	mode := r.URL.Query().Get("mode")
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 10)

	rows, total, err := a.admin.ListCourses(r.Context(), keyword, mode, page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(rows, total, page, size))
}

func (a *API) handleAdminCourseURL(w http.ResponseWriter, r *http.Request) {
	courseIndex := queryInt(r, "courseIndex", 0)
	if courseIndex <= 0 {
		writeError(w, http.StatusBadRequest, "courseIndex 无效")
		return
	}
	var req dto.CourseURLRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if err := a.admin.UpdateCourseURL(r.Context(), courseIndex, req.URL); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleAdminCourseTypes GET 列表，POST 新建
func (a *API) handleAdminCourseTypes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		types, err := a.courses.ListTypes(r.Context(), nil)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, types)
	case http.MethodPost:
		var req dto.CourseTypeRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "请求体格式错误")
			return
		}
		ct, err := a.admin.CreateCourseType(r.Context(), req.TypeName)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ct)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *API) handleAdminCourseTypeUpdate(w http.ResponseWriter, r *http.Request) {
	typeID := queryInt(r, "typeId", 0)
	if typeID <= 0 {
		writeError(w, http.StatusBadRequest, "typeId 无效")
		return
	}
	var req dto.CourseTypeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if err := a.admin.UpdateCourseType(r.Context(), typeID, req.TypeName); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdminCourseTypeDelete(w http.ResponseWriter, r *http.Request) {
	typeID := queryInt(r, "typeId", 0)
	if typeID <= 0 {
		writeError(w, http.StatusBadRequest, "typeId 无效")
		return
	}
	if err := a.admin.DeleteCourseType(r.Context(), typeID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleAdminQuestions GET 分页搜索，POST 新建
func (a *API) handleAdminQuestions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		keyword := r.URL.Query().Get("keyword")
		page := queryInt(r, "page", 1)
		size := queryInt(r, "size", 10)
		qs, total, err := a.admin.ListQuestions(r.Context(), keyword, page, size)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, dto.NewPage(questionsToDTO(qs), total, page, size))
	case http.MethodPost:
		var req dto.QuestionUpsertRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "请求体格式错误")
			return
		}
		q := &schema.CourseQuestion{
			CourseID:    req.CourseID,
			CourseName:  req.CourseName,
			Question:    req.Question,
			Options:     req.Options,
			Answer:      req.Answer,
			Explanation: req.Explanation,
		}
		if err := a.admin.CreateQuestion(r.Context(), q); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, questionToDTO(*q))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *API) handleAdminQuestionUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id 无效")
		return
	}
	var req dto.QuestionUpsertRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if err := a.admin.UpdateQuestion(r.Context(), id, req.Question, req.Options, req.Answer, req.Explanation); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdminQuestionDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id 无效")
		return
	}
	if err := a.admin.DeleteQuestion(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdminWrongQuestions(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 10)

	rows, total, err := a.admin.ListWrongQuestions(r.Context(), keyword, page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(rows, total, page, size))
}

func (a *API) handleAdminWrongQuestionDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt64(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "id 无效")
		return
	}
	if err := a.admin.DeleteWrongQuestion(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdminPlans(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 10)

	rows, total, err := a.admin.ListPlans(r.Context(), keyword, page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(rows, total, page, size))
}

func (a *API) handleAdminPlanUpdate(w http.ResponseWriter, r *http.Request) {
	planID, ok := queryInt64(r, "planId")
	if !ok {
		writeError(w, http.StatusBadRequest, "planId 无效")
		return
	}
	var req dto.PlanRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if err := a.admin.UpdatePlan(r.Context(), planID, service.PlanInput{
		Title:      req.Title,
		Content:    req.Content,
		TargetDate: req.TargetDate,
		Status:     req.Status,
	}); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdminPlanDelete(w http.ResponseWriter, r *http.Request) {
	planID, ok := queryInt64(r, "planId")
	if !ok {
		writeError(w, http.StatusBadRequest, "planId 无效")
		return
	}
	if err := a.admin.DeletePlan(r.Context(), planID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
