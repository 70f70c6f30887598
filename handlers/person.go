package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/services"
)

type addressRequest struct {
	Street  string `json:"street"`
	Zipcode int    `json:"zipcode"`
}

type phoneRequest struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}

// personRequest is the create/update body. Hobbies are referenced by name.
type personRequest struct {
	ID        uint            `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Address   *addressRequest `json:"address"`
	Phones    []phoneRequest  `json:"phones"`
	Hobbies   []string        `json:"hobbies"`
}

func (req personRequest) toModel() *models.Person {
	p := &models.Person{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Address != nil {
		p.Address = &models.Address{Street: req.Address.Street, Zipcode: req.Address.Zipcode}
	}
	for _, ph := range req.Phones {
		p.Phones = append(p.Phones, models.Phone{Number: ph.Number, Description: ph.Description})
	}
	for _, name := range req.Hobbies {
		p.Hobbies = append(p.Hobbies, models.Hobby{Name: name})
	}
	return p
}

type PersonHandler struct {
	Persons *services.PersonService
	Stats   *database.StatsStore
	Log     *logger.Logger
}

func (ph *PersonHandler) decode(w http.ResponseWriter, r *http.Request) (*personRequest, bool) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error())
		return nil, false
	}
	return &req, true
}

func (ph *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	sortOrder := r.URL.Query().Get("sort")
	if sortOrder != "" && !database.IsValidSortOrder(sortOrder) {
		WriteAPIError(w, http.StatusBadRequest, "invalid_sort", "Unknown sort order: "+sortOrder)
		return
	}
	people, err := ph.Persons.ListPersons(r.Context(), sortOrder)
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, people)
}

func (ph *PersonHandler) CountPersons(w http.ResponseWriter, r *http.Request) {
	n, err := ph.Stats.CountPersons(r.Context())
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, countResponse{Count: n})
}

func (ph *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	req, ok := ph.decode(w, r)
	if !ok {
		return
	}
	if req.ID != 0 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "id must not be set when creating a person")
		return
	}
	person, err := ph.Persons.CreatePerson(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusCreated, person)
}

// UpdatePerson takes the id from the path when present, else from the body.
func (ph *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	req, ok := ph.decode(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "id") != "" {
		id, err := uintParam(r, "id")
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
			return
		}
		if req.ID != 0 && req.ID != id {
			WriteAPIError(w, http.StatusBadRequest, "invalid_body", "id in body does not match path")
			return
		}
		req.ID = id
	}
	if req.ID == 0 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "Missing required field: id")
		return
	}
	person, err := ph.Persons.UpdatePerson(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, person)
}

func (ph *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := ph.Persons.DeletePerson(r.Context(), id); err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ph *PersonHandler) RemoveAddress(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if err := ph.Persons.RemoveAddressFromPerson(r.Context(), id); err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ph *PersonHandler) GetPersonByID(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	person, err := ph.Persons.GetPersonByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, person)
}

func (ph *PersonHandler) GetPersonByNumber(w http.ResponseWriter, r *http.Request) {
	number, err := intParam(r, "number")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_number", err.Error())
		return
	}
	person, err := ph.Persons.GetPersonByNumber(r.Context(), number)
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, person)
}

func (ph *PersonHandler) GetPersonsByZipcode(w http.ResponseWriter, r *http.Request) {
	zipcode, err := intParam(r, "zipcode")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_zipcode", err.Error())
		return
	}
	people, err := ph.Persons.GetPersonsByZipcode(r.Context(), zipcode)
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, people)
}

func (ph *PersonHandler) GetPersonsByHobby(w http.ResponseWriter, r *http.Request) {
	people, err := ph.Persons.GetPersonsByHobbyName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, people)
}

func (ph *PersonHandler) CountPersonsByHobby(w http.ResponseWriter, r *http.Request) {
	n, err := ph.Stats.CountPersonsWithHobby(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, ph.Log, err)
		return
	}
	writeJSON(w, ph.Log, http.StatusOK, countResponse{Count: n})
}
