package handler

import (
	"net/http"

	"github.com/yuqie6/StudyPath/internal/dto"
	"github.com/yuqie6/StudyPath/internal/schema"
	"github.com/yuqie6/StudyPath/internal/service"
)

func planToDTO(p schema.StudyPlan) dto.PlanDTO {
	out := dto.PlanDTO{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Description,
		Status:  p.Status,
	}
	if p.TargetDate != nil {
		out.TargetDate = p.TargetDate.Format("2006-01-02")
	}
	return out
}

func plansToDTO(plans []schema.StudyPlan) []dto.PlanDTO {
	out := make([]dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, planToDTO(p))
	}
	return out
}

// handlePlans GET 查列表，POST 新建
func (a *API) handlePlans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listPlans(w, r)
	case http.MethodPost:
		a.createPlan(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (a *API) listPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	status := r.URL.Query().Get("status")
	sort := r.URL.Query().Get("sort")

	plans, err := a.plans.List(r.Context(), userID, status, sort)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plansToDTO(plans))
}

func (a *API) createPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "userId 无效")
		return
	}
	var req dto.PlanRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	plan, err := a.plans.Create(r.Context(), userID, service.PlanInput{
		Title:      req.Title,
		Content:    req.Content,
		TargetDate: req.TargetDate,
		Status:     req.Status,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, planToDTO(*plan))
}

func (a *API) handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	planID, ok1 := queryInt64(r, "planId")
	userID, ok2 := queryInt64(r, "userId")
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "planId 和 userId 必填")
		return
	}
	var req dto.PlanRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "请求体格式错误")
		return
	}
	plan, err := a.plans.Update(r.Context(), planID, userID, service.PlanInput{
		Title:      req.Title,
		Content:    req.Content,
		TargetDate: req.TargetDate,
		Status:     req.Status,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, planToDTO(*plan))
}

func (a *API) handlePlanDelete(w http.ResponseWriter, r *http.Request) {
	planID, ok1 := queryInt64(r, "planId")
	userID, ok2 := queryInt64(r, "userId")
	if !ok1 || !ok2 {
		writeError(w, http.StatusBadRequest, "planId 和 userId 必填")
		return
	}
	if err := a.plans.Delete(r.Context(), planID, userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
