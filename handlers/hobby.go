package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/services"
)

type HobbyHandler struct {
	Hobbies *services.HobbyService
	Persons *services.PersonService
	Log     *logger.Logger
}

func (hh *HobbyHandler) ListHobbies(w http.ResponseWriter, r *http.Request) {
	hobbies, err := hh.Hobbies.GetHobbies(r.Context())
	if err != nil {
		writeServiceError(w, r, hh.Log, err)
		return
	}
	writeJSON(w, hh.Log, http.StatusOK, hobbies)
}

func (hh *HobbyHandler) CountHobbies(w http.ResponseWriter, r *http.Request) {
	n, err := hh.Hobbies.CountHobbies(r.Context())
	if err != nil {
		writeServiceError(w, r, hh.Log, err)
		return
	}
	writeJSON(w, hh.Log, http.StatusOK, countResponse{Count: n})
}

func (hh *HobbyHandler) SearchHobbies(w http.ResponseWriter, r *http.Request) {
	hobbies, err := hh.Hobbies.SearchHobbies(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		writeServiceError(w, r, hh.Log, err)
		return
	}
	writeJSON(w, hh.Log, http.StatusOK, hobbies)
}

func (hh *HobbyHandler) GetHobby(w http.ResponseWriter, r *http.Request) {
	hobby, err := hh.Hobbies.GetHobbyByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, hh.Log, err)
		return
	}
	writeJSON(w, hh.Log, http.StatusOK, hobby)
}

func (hh *HobbyHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	people, err := hh.Persons.GetPersonsByHobbyName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, hh.Log, err)
		return
	}
	writeJSON(w, hh.Log, http.StatusOK, people)
}

func (hh *HobbyHandler) CountPersons(w http.ResponseWriter, r *http.Request) {
	n, err := hh.Hobbies.CountPersonsByHobbyName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, hh.Log, err)
		return
	}
	writeJSON(w, hh.Log, http.StatusOK, countResponse{Count: n})
}
