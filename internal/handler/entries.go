package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateOvertimeEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date               string `json:"date" validate:"required"`
		StartTime          string `json:"startTime" validate:"required"`
		EndTime            string `json:"endTime" validate:"required"`
		IsPublicHoliday    bool   `json:"isPublicHoliday"`
		IsDesignatedDayOff bool   `json:"isDesignatedDayOff"`
		Note               string `json:"note" validate:"max=200"`
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

	entry, err := h.service.CreateEntry(actor, req.Date, req.StartTime, req.EndTime, req.IsPublicHoliday, req.IsDesignatedDayOff, req.Note)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "加班记录已提交", entry)
}

func (h *Handler) GetMyOvertimeEntries(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	actor, err := h.actorFromRequest(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	entries, err := h.service.ListEntries(actor, month)
	if err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取加班记录成功", entries)
}

func (h *Handler) DeleteOvertimeEntry(w http.ResponseWriter, r *http.Request) {
	entryIDParam := chi.URLParam(r, "id")
	entryID, err := strconv.ParseInt(entryIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "记录ID无效")
		return
	}

	actor, err := h.actorFromRequest(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.service.DeleteEntry(actor, entryID); err != nil {
		h.engineError(w, r, err)
		return
	}

	h.successResponse(w, r, "加班记录已删除", nil)
}
