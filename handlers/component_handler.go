package handlers

import (
	"net/http"
	"strconv"

	"empresspc/services"

	"go.uber.org/zap"
)

type ComponentHandler struct {
	Components *services.ComponentService
	Log        *zap.Logger
}

// List returns active components grouped by category, or every component as
// a flat list with ?includeInactive=true.
func (h *ComponentHandler) List(w http.ResponseWriter, r *http.Request) {
	if all, _ := strconv.ParseBool(r.URL.Query().Get("includeInactive")); all {
		components, err := h.Components.All(r.Context())
		if err != nil {
			writeError(w, r, h.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, components)
		return
	}
	catalog, err := h.Components.Catalog(r.Context())
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (h *ComponentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Components.Categories(r.Context())
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *ComponentHandler) Get(w http.ResponseWriter, r *http.Request) {
	cid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	component, err := h.Components.Get(r.Context(), cid)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, component)
}

func (h *ComponentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ComponentInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	component, err := h.Components.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, component)
}

func (h *ComponentHandler) Update(w http.ResponseWriter, r *http.Request) {
	cid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	var in services.UpdateComponentInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	component, err := h.Components.Update(r.Context(), cid, in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, component)
}

func (h *ComponentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if err := h.Components.Delete(r.Context(), cid); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeMessage(w, http.StatusOK, "Component deleted successfully")
}

// bulkImportInput items are checked one by one by the service so a bad entry
// does not reject the whole batch.
type bulkImportInput struct {
	Components []services.ComponentInput `json:"components"`
}

func (h *ComponentHandler) BulkImport(w http.ResponseWriter, r *http.Request) {
	var in bulkImportInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	res, err := h.Components.BulkImport(r.Context(), in.Components)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
