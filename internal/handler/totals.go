package handler

import (
	"net/http"
)

func (h *Handler) GetMonthlyTotals(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	actor, err := h.actorFromRequest(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	totals, err := h.service.MonthlyTotals(actor, month)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取月度汇总成功", totals)
}
