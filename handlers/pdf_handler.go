package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"empresspc/services"

	"go.uber.org/zap"
)

type PDFHandler struct {
	PDFs *services.PDFService
	Log  *zap.Logger
}

// QuotationPDF streams the rendered quotation. With ?upload=true the file is
// also stored and its URL returned in the X-PDF-URL header.
func (h *PDFHandler) QuotationPDF(w http.ResponseWriter, r *http.Request) {
	qid, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	upload := false
	if raw := r.URL.Query().Get("upload"); raw != "" {
		if upload, err = strconv.ParseBool(raw); err != nil {
			writeError(w, r, h.Log, fmt.Errorf("%w: upload must be true or false", services.ErrValidation))
			return
		}
	}

	pdf, err := h.PDFs.Render(r.Context(), identity(r), qid, upload)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", pdf.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf.Data)))
	if pdf.URL != "" {
		w.Header().Set("X-PDF-URL", pdf.URL)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf.Data)
}
