package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/handlers"
	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/models"
	"github.com/camden-git/persongraph/services"
	"github.com/camden-git/persongraph/testutil"
)

type apiFixture struct {
	db     *gorm.DB
	router http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	db := testutil.DB(t)
	testutil.SeedHobbies(t, db)
	stats, err := database.NewStatsStore(db)
	require.NoError(t, err)

	log := logger.Nop()
	router := handlers.NewRouter(handlers.RouterDeps{
		Persons:        services.NewPersonService(db, nil, log),
		Addresses:      services.NewAddressService(db, nil, log),
		Phones:         services.NewPhoneService(db, nil, log),
		Hobbies:        services.NewHobbyService(db, stats, nil, log),
		Stats:          stats,
		AllowedOrigins: []string{"http://localhost:5173"},
		Log:            log,
	})
	return &apiFixture{db: db, router: router}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func personBody(first string, number int, hobbies ...string) map[string]interface{} {
	return map[string]interface{}{
		"first_name": first,
		"last_name":  "Hansen",
		"email":      first + "@example.dk",
		"address":    map[string]interface{}{"street": "Nørregade 1", "zipcode": 1165},
		"phones":     []map[string]interface{}{{"number": number, "description": "mobil"}},
		"hobbies":    hobbies,
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode[handlers.APIErrorResponse](t, rec)
	require.Len(t, resp.Errors, 1)
	return resp.Errors[0].Code
}

func TestCreateAndReadPerson(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/person", personBody("Karen", 12345678, "Yoga", "Musik"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Person](t, rec)
	require.NotZero(t, created.ID)
	require.NotNil(t, created.Address)
	assert.Equal(t, "Nørregade 1", created.Address.Street)
	assert.Len(t, created.Phones, 1)
	assert.Len(t, created.Hobbies, 2)

	rec = f.do(t, http.MethodGet, "/api/person/number/12345678", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[models.Person](t, rec).ID)

	rec = f.do(t, http.MethodGet, "/api/person/zipcode/1165", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Person](t, rec), 1)

	rec = f.do(t, http.MethodGet, "/api/person/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/hobby/Yoga/persons/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/person/has-hobby/Squash", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Person](t, rec))
}

func TestCreatePersonErrorStatuses(t *testing.T) {
	f := newAPIFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/person", personBody("Karen", 11111111)).Code)

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"claimed phone", personBody("Ole", 11111111), http.StatusConflict, "conflict"},
		{"unknown hobby", personBody("Ole", 22222222, "Curling"), http.StatusNotFound, "not_found"},
		{"bad email", func() map[string]interface{} {
			b := personBody("Ole", 33333333)
			b["email"] = "not-an-email"
			return b
		}(), http.StatusBadRequest, "invalid"},
		{"id on create", func() map[string]interface{} {
			b := personBody("Ole", 44444444)
			b["id"] = 7
			return b
		}(), http.StatusBadRequest, "invalid_body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/person", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/person", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", errorCode(t, rec))
}

func TestUpdatePersonByPathAndBody(t *testing.T) {
	f := newAPIFixture(t)
	created := decode[models.Person](t, f.do(t, http.MethodPost, "/api/person", personBody("Karen", 12345678)))

	body := personBody("Karen", 12345678, "Søvn")
	body["last_name"] = "Madsen"
	rec := f.do(t, http.MethodPut, "/api/person/"+itoa(created.ID), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Person](t, rec)
	assert.Equal(t, "Madsen", updated.LastName)
	require.Len(t, updated.Hobbies, 1)
	assert.Equal(t, "Søvn", updated.Hobbies[0].Name)

	body["id"] = created.ID
	body["last_name"] = "Holm"
	rec = f.do(t, http.MethodPut, "/api/person", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Holm", decode[models.Person](t, rec).LastName)

	body["id"] = created.ID + 1
	rec = f.do(t, http.MethodPut, "/api/person/"+itoa(created.ID), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	delete(body, "id")
	rec = f.do(t, http.MethodPut, "/api/person", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	karen := decode[models.Person](t, f.do(t, http.MethodPost, "/api/person", personBody("Karen", 12345678)))
	ole := decode[models.Person](t, f.do(t, http.MethodPost, "/api/person", personBody("Ole", 87654321)))
	require.NotNil(t, karen.Address)

	rec := f.do(t, http.MethodDelete, "/api/address/"+itoa(karen.Address.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/phone/87654321", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/phone/87654321", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/person/"+itoa(ole.ID)+"/address", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/person/"+itoa(karen.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/person/id/"+itoa(karen.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, int64(1), testutil.Count(t, f.db, &models.Address{}, ""))
	rec = f.do(t, http.MethodDelete, "/api/address/"+itoa(karen.Address.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, testutil.Count(t, f.db, &models.Address{}, ""))

	rec = f.do(t, http.MethodDelete, "/api/person/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHobbyEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/hobby", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Hobby](t, rec), len(testutil.HobbyNames))

	rec = f.do(t, http.MethodGet, "/api/hobby/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":5}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/hobby/search/zzz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/hobby/Yoga", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Yoga", decode[models.Hobby](t, rec).Name)

	rec = f.do(t, http.MethodGet, "/api/hobby/Curling", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/hobby/Curling/persons", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/person/has-hobby/Curling/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())
}

func TestStatsAndPhoneList(t *testing.T) {
	f := newAPIFixture(t)
	f.do(t, http.MethodPost, "/api/person", personBody("Karen", 12345678))

	rec := f.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[database.DirectoryStats](t, rec)
	assert.Equal(t, database.DirectoryStats{Persons: 1, Addresses: 1, Phones: 1, Hobbies: 5}, stats)

	rec = f.do(t, http.MethodGet, "/api/phone", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	phones := decode[[]models.Phone](t, rec)
	require.Len(t, phones, 1)
	assert.Equal(t, 12345678, phones[0].Number)
}

func TestListPersonsRejectsUnknownSort(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/api/person?sort=shoe_size", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_sort", errorCode(t, rec))

	rec = f.do(t, http.MethodGet, "/api/person?sort="+database.SortLastNameAsc, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, handlers.StatusFor(services.KindNotFound))
	assert.Equal(t, http.StatusConflict, handlers.StatusFor(services.KindConflict))
	assert.Equal(t, http.StatusBadRequest, handlers.StatusFor(services.KindInvalid))
	assert.Equal(t, http.StatusInternalServerError, handlers.StatusFor(services.KindInternal))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
