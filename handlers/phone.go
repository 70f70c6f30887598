package handlers

import (
	"net/http"

	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/services"
)

type PhoneHandler struct {
	Phones *services.PhoneService
	Log    *logger.Logger
}

func (ph *PhoneHandler) ListPhones(w http.ResponseWriter, r *http.Request) {
	phones, err := ph.Phones.ListPhones(r.Context())
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, phones)
}

func (ph *PhoneHandler) RemovePhone(w http.ResponseWriter, r *http.Request) {
	number, err := intParam(r, "number")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_number", err.Error())
		return
	}
	if err := ph.Phones.RemovePhone(r.Context(), number); err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
