package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/garnizeh/feedback/internal/feedback"
	"github.com/garnizeh/feedback/internal/models"
)

type FeedbackHandler struct {
	svc     *feedback.Service
	schemas *Schemas
}

func NewFeedbackHandler(svc *feedback.Service, schemas *Schemas) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, schemas: schemas}
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request, caller *models.User) {
	var in feedback.CreateInput
	if err := h.schemas.decodeBody(r, schemaFeedbackCreate, &in); err != nil {
		WriteError(w, r, err)
		return
	}

	f, err := h.svc.Create(r.Context(), caller.ID, in)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, f)
}

func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request, caller *models.User) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var p feedback.Patch
	if err := h.schemas.decodeBody(r, schemaFeedbackUpdate, &p); err != nil {
		WriteError(w, r, err)
		return
	}

	f, err := h.svc.Update(r.Context(), caller.ID, id, p)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, f)
}

func (h *FeedbackHandler) Acknowledge(w http.ResponseWriter, r *http.Request, caller *models.User) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	f, err := h.svc.Acknowledge(r.Context(), caller.ID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, f)
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", models.ErrValidation, raw)
	}
	return id, nil
}
