package handlers

import (
	"net/http"

	"empresspc/models"
	"empresspc/services"

	"go.uber.org/zap"
)

type QuotationHandler struct {
	Quotations *services.QuotationService
	Log        *zap.Logger
}

func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := services.ListQuotationsInput{
		Status:   models.QuotationStatus(q.Get("status")),
		Customer: q.Get("customer"),
		Search:   q.Get("search"),
	}
	var err error
	if in.StartDate, err = parseDate(q.Get("startDate"), false); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if in.EndDate, err = parseDate(q.Get("endDate"), true); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if in.Page, err = queryInt(r, "page"); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if in.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	page, err := h.Quotations.List(r.Context(), identity(r), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	qid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	quotation, err := h.Quotations.Get(r.Context(), identity(r), qid)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, quotation)
}

func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateQuotationInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	quotation, err := h.Quotations.Create(r.Context(), identity(r), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, quotation)
}

func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	qid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	var in services.UpdateQuotationInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	quotation, err := h.Quotations.Update(r.Context(), identity(r), qid, in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, quotation)
}

func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	qid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if err := h.Quotations.Delete(r.Context(), identity(r), qid); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeMessage(w, http.StatusOK, "Quotation deleted successfully")
}

func (h *QuotationHandler) Revise(w http.ResponseWriter, r *http.Request) {
	qid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	var in services.ReviseInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	revision, err := h.Quotations.Revise(r.Context(), identity(r), qid, in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, revision)
}

// Revisions returns the whole chain of the quotation, original first.
func (h *QuotationHandler) Revisions(w http.ResponseWriter, r *http.Request) {
	qid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	chain, err := h.Quotations.Revisions(r.Context(), identity(r), qid)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, chain)
}

type statusInput struct {
	Status models.QuotationStatus `json:"status" validate:"required"`
}

func (h *QuotationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	qid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	var in statusInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	quotation, err := h.Quotations.UpdateStatus(r.Context(), identity(r), qid, in.Status)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, quotation)
}

func (h *QuotationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		in  services.StatsInput
		err error
	)
	if in.StartDate, err = parseDate(q.Get("startDate"), false); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if in.EndDate, err = parseDate(q.Get("endDate"), true); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if in.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	summary, err := h.Quotations.Summary(r.Context(), identity(r), in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
