package handler

import (
	"net/http"
	"strings"

	"github.com/yuqie6/StudyPath/internal/dto"
	"github.com/yuqie6/StudyPath/internal/schema"
	"github.com/yuqie6/StudyPath/internal/service"
)

func wrongToDTO(wq schema.WrongQuestion) dto.WrongQuestionDTO {
	return dto.WrongQuestionDTO{
		ID:            wq.ID,
		QuestionID:    wq.QuestionID,
		QuestionText:  wq.QuestionText,
		CourseName:    wq.CourseName,
		YourAnswer:    wq.YourAnswer,
		CorrectAnswer: wq.CorrectAnswer,
		ErrorCount:    wq.ErrorCount,
		CreatedAt:     wq.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func wrongsToDTO(wqs []schema.WrongQuestion) []dto.WrongQuestionDTO {
	out := make([]dto.WrongQuestionDTO, 0, len(wqs))
	for _, wq := range wqs {
		out = append(out, wrongToDTO(wq))
	}
	return out
}

// handleWrongQuestions GET 查列表，POST 上报一次答错
func (a *API) handleWrongQuestions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listWrongQuestions(w, r)
	case http.MethodPost:
		a.recordWrongQuestion(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *API) recordWrongQuestion(w http.ResponseWriter, r *http.Request) {
	var req dto.WrongQuestionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	if req.QuestionID == nil && strings.TrimSpace(req.QuestionText) == "" {
		writeError(w, http.StatusBadRequest, "questionId 和 questionText 至少提供一个")
		return
	}
	count, err := a.wrongs.Record(r.Context(), service.RecordRequest{
		UserID:        req.UserID,
		QuestionID:    req.QuestionID,
		QuestionText:  req.QuestionText,
		CourseName:    req.CourseName,
		YourAnswer:    req.YourAnswer,
		CorrectAnswer: req.CorrectAnswer,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"errorCount": count})
}

func (a *API) listWrongQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	keyword := r.URL.Query().Get("keyword")
	wqs, err := a.wrongs.List(r.Context(), userID, keyword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, wrongsToDTO(wqs))
}

// handleWrongQuestionsPaged 分页错题，category 标签可选
func (a *API) handleWrongQuestionsPaged(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	keyword := r.URL.Query().Get("keyword")
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 10)

	var typeIDs []int
	if label := strings.TrimSpace(r.URL.Query().Get("category")); label != "" {
		ids, err := a.categories.ResolveTypeIDs(r.Context(), label, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(ids) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{
				"items": []dto.WrongQuestionDTO{}, "total": 0, "totalPages": 0,
				"page": page, "size": size,
			})
			return
		}
		typeIDs = ids
	}

	wqs, total, err := a.wrongs.ListPaged(r.Context(), userID, typeIDs, keyword, page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	totalPages := int64(0)
	if size > 0 {
		totalPages = (total + int64(size) - 1) / int64(size)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": wrongsToDTO(wqs), "total": total, "totalPages": totalPages,
		"page": page, "size": size,
	})
}

func (a *API) handleWrongQuestionCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	var qid *int64
	if v, ok := queryInt64(r, "questionId"); ok {
		qid = &v
	}
	text := r.URL.Query().Get("questionText")

	count, err := a.wrongs.CountFor(r.Context(), userID, qid, text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"errorCount": count})
}

// handleWrongQuestionsByCategory 错题重练：按标签随机抽错题
func (a *API) handleWrongQuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	label := strings.TrimSpace(r.URL.Query().Get("category"))
	if label == "" {
		writeError(w, http.StatusBadRequest, "category 不能为空")
		return
	}
	limit := queryInt(r, "limit", 10)

	typeIDs, err := a.categories.ResolveTypeIDs(r.Context(), label, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	wqs, err := a.wrongs.ListByTypeIDs(r.Context(), userID, typeIDs, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, wrongsToDTO(wqs))
}

func (a *API) handleWrongQuestionDelete(w http.ResponseWriter, r *http.Request) {
	id, ok1 := queryInt64(r, "id")
	userID, ok2 := queryInt64(r, "userId")
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "id 和 userId 必填")
		return
	}
	if err := a.wrongs.Delete(r.Context(), id, userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
