package handler

import (
	"net/http"

	"github.com/yuqie6/StudyPath/internal/dto"
	"github.com/yuqie6/StudyPath/internal/recommender"
)

// handleRecommendations 推荐主链路
// 永远返回带 recommendations 键的 JSON：映射缺失给 400、降级给 500，
// 两者都附空列表，前端渲染逻辑不用分支。
func (a *API) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	topN := queryInt(r, "topN", 10)

	res := a.recommend.GetRecommendations(r.Context(), userID, topN)
	switch {
	case res.NoIdentity:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":           "no_student_mapping",
			"recommendations": []recommender.Item{},
		})
	case res.Diagnostic != "":
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":           res.Diagnostic,
			"recommendations": []recommender.Item{},
		})
	default:
		writeJSON(w, http.StatusOK, res.Payload)
	}
}

func (a *API) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var req dto.InteractionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	if req.UserID <= 0 || req.CourseIndex <= 0 {
		writeError(w, http.StatusBadRequest, "userId 和 courseIndex 必填")
		return
	}
	if err := a.recommend.RecordInteraction(r.Context(), req.UserID, req.CourseIndex); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	topK := queryInt(r, "topK", 10)
	maxUsers := queryInt(r, "maxUsers", 100)

	raw, err := a.recommend.Evaluate(r.Context(), topK, maxUsers)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
