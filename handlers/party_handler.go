package handlers

import (
	"net/http"

	"empresspc/models"
	"empresspc/services"

	"go.uber.org/zap"
)

type PartyHandler struct {
	Parties *services.PartyService
	Log     *zap.Logger
}

func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	parties, err := h.Parties.List(r.Context(), identity(r), models.PartyType(q.Get("type")), q.Get("search"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, parties)
}

func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	party, err := h.Parties.Get(r.Context(), identity(r), pid)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, party)
}

func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PartyInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	party, err := h.Parties.Create(r.Context(), identity(r), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, party)
}

func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	var in services.UpdatePartyInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	party, err := h.Parties.Update(r.Context(), identity(r), pid, in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, party)
}

func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if err := h.Parties.Delete(r.Context(), identity(r), pid); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeMessage(w, http.StatusOK, "Party deleted successfully")
}
