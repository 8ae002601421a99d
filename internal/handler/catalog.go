package handler

import (
	"net/http"
	"strings"

	"github.com/yuqie6/StudyPath/internal/dto"
	"github.com/yuqie6/StudyPath/internal/schema"
)

func (a *API) handleCourses(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	rows, err := a.courses.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) handleCoursesPaged(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	mode := r.URL.Query().Get("mode")
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 10)

	rows, total, err := a.courses.ListPaged(r.Context(), keyword, mode, page, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPage(rows, total, page, size))
}

// handleCourseTypes 课程类别列表
// exclude 参数是逗号分隔的名称关键词，命中的类别被剔除。
func (a *API) handleCourseTypes(w http.ResponseWriter, r *http.Request) {
	var exclude []string
	if raw := strings.TrimSpace(r.URL.Query().Get("exclude")); raw != "" {
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				exclude = append(exclude, kw)
			}
		}
	}
	types, err := a.courses.ListTypes(r.Context(), exclude)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func questionToDTO(q schema.CourseQuestion) dto.QuestionDTO {
	return dto.QuestionDTO{
		ID:          q.ID,
		CourseID:    q.CourseID,
		CourseName:  q.CourseName,
		Question:    q.Question,
		Options:     q.Options,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
}

func questionsToDTO(qs []schema.CourseQuestion) []dto.QuestionDTO {
	out := make([]dto.QuestionDTO, 0, len(qs))
	for _, q := range qs {
		out = append(out, questionToDTO(q))
	}
	return out
}

func (a *API) handleQuestions(w http.ResponseWriter, r *http.Request) {
	courseID := queryInt(r, "courseId", 0)
	if courseID <= 0 {
		writeError(w, http.StatusBadRequest, "courseId 无效")
		return
	}
	limit := queryInt(r, "limit", 10)
	random := queryBool(r, "random", true)

	qs, err := a.questions.ListQuestions(r.Context(), courseID, limit, random)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, questionsToDTO(qs))
}

func (a *API) handleQuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimSpace(r.URL.Query().Get("category"))
	if label == "" {
		writeError(w, http.StatusBadRequest, "category 不能为空")
		return
	}
	userID, _ := queryInt64(r, "userId")
	limit := queryInt(r, "limit", 10)
	random := queryBool(r, "random", true)

	qs, err := a.questions.ListQuestionsByCategory(r.Context(), label, userID, limit, random)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, questionsToDTO(qs))
}
