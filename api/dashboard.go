package api

import (
	"net/http"

	"github.com/garnizeh/feedback/internal/dashboard"
	"github.com/garnizeh/feedback/internal/models"
)

type DashboardHandler struct {
	agg *dashboard.Aggregator
}

func NewDashboardHandler(agg *dashboard.Aggregator) *DashboardHandler {
	return &DashboardHandler{agg: agg}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request, caller *models.User) {
	d, err := h.agg.For(r.Context(), caller)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DashboardHandler) Team(w http.ResponseWriter, r *http.Request, caller *models.User) {
	members, err := h.agg.Team(r.Context(), caller)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
