package handlers

import (
	"net/http"

	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/services"
)

type AddressHandler struct {
	Addresses *services.AddressService
	Log       *logger.Logger
}

// DeleteAddress refuses with 409 while any person still lives at the address.
func (ah *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := ah.Addresses.DeleteAddress(r.Context(), id); err != nil {
		writeServiceError(w, r, ah.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type StatsHandler struct {
	Stats *database.StatsStore
	Log   *logger.Logger
}

func (sh *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := sh.Stats.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, sh.Log, err)
		return
	}
	writeJSON(w, sh.Log, http.StatusOK, stats)
}
