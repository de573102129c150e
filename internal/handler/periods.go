package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) OpenPeriod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    int64  `json:"userID" validate:"required,gt=0"`
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		Reason    string `json:"reason" validate:"max=300"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	actor, err := h.actorFromRequest(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	period, err := h.service.OpenPeriod(actor, req.UserID, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "申报窗口已开放", period)
}

func (h *Handler) GetMemberPeriods(w http.ResponseWriter, r *http.Request) {
	userIDParam := r.URL.Query().Get("userId")
	userID, err := strconv.ParseInt(userIDParam, 10, 64)
	if err != nil || userID <= 0 {
		h.errorResponse(w, r, "用户ID无效")
		return
	}

	actor, err := h.actorFromRequest(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	periods, err := h.service.ListPeriods(actor, userID)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申报窗口成功", periods)
}

func (h *Handler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	periodIDParam := chi.URLParam(r, "id")
	periodID, err := strconv.ParseInt(periodIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "窗口ID无效")
		return
	}

	actor, err := h.actorFromRequest(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.service.ClosePeriod(actor, periodID); err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "申报窗口已关闭", nil)
}
