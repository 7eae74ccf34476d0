package handlers

import (
	"net/http"

	"empresspc/models"
	"empresspc/repository"

	"go.uber.org/zap"
)

type InitialHandler struct {
	Repo repository.InitialRepository
	Log  *zap.Logger
}

type initialInput struct {
	CompanyName string               `json:"company_name" validate:"required,max=200"`
	Address     string               `json:"address"`
	Phone       string               `json:"phone" validate:"max=20"`
	Email       string               `json:"email" validate:"omitempty,email"`
	State       string               `json:"state"`
	GSTIN       string               `json:"gstin" validate:"omitempty,len=15"`
	Footnote    string               `json:"footnote"`
	Mobile      []models.MobileEntry `json:"mobile" validate:"dive"`
}

// SaveInitial stores a new company profile. The latest one wins.
func (h *InitialHandler) SaveInitial(w http.ResponseWriter, r *http.Request) {
	var in initialInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	initial := models.InitialSetup{
		CompanyName: in.CompanyName,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		State:       in.State,
		GSTIN:       in.GSTIN,
		Footnote:    in.Footnote,
		Mobile:      in.Mobile,
	}
	if err := h.Repo.SaveInitial(r.Context(), &initial); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, initial)
}

func (h *InitialHandler) GetInitial(w http.ResponseWriter, r *http.Request) {
	initial, err := h.Repo.GetInitial(r.Context())
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if initial == nil {
		writeMessage(w, http.StatusNotFound, "Initial details not found")
		return
	}
	writeJSON(w, http.StatusOK, initial)
}
