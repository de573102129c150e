package handler

import (
	"net/http"
)

func (h *Handler) GetTeamApprovals(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	actor, err := h.actorFromRequest(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	entries, err := h.service.ListTeamEntries(actor, month)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取待审批记录成功", entries)
}

func (h *Handler) UpdateApproval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID int64  `json:"entryID" validate:"required,gt=0"`
		Action  string `json:"action" validate:"required,oneof=approve reject"`
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

	entry, err := h.service.SetEntryStatus(actor, req.EntryID, req.Action)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "审批结果已更新", entry)
}

func (h *Handler) ClearTeamOvertime(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorFromRequest(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.service.ClearEntries(actor); err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "本团队加班记录已清空", nil)
}
