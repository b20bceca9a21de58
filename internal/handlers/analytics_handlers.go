package handlers

import (
	"net/http"

	"github.com/google/uuid"
)

type AnalyticsHandler struct {
	analyticsService AnalyticsService
}

func NewAnalyticsHandler(analyticsService AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	report, err := h.analyticsService.Overview(r.Context(), caller.ID)
	if err != nil {
		respondError(w, err, "analytics_overview")
		return
	}

	responseWithJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	targetID := uuid.Nil
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			responseWithError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		targetID = id
	}

	report, err := h.analyticsService.Performance(r.Context(), caller.ID, targetID)
	if err != nil {
		respondError(w, err, "analytics_performance")
		return
	}

	responseWithJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	report, err := h.analyticsService.Trends(r.Context(), caller.ID, q.Get("from"), q.Get("to"))
	if err != nil {
		respondError(w, err, "analytics_trends")
		return
	}

	responseWithJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.analyticsService.Export(r.Context(), caller.ID)
	if err != nil {
		respondError(w, err, "analytics_export")
		return
	}

	responseWithJSON(w, http.StatusOK, tasks)
}
