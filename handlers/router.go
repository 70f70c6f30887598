package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/camden-git/persongraph/database"
	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/services"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Persons   *services.PersonService
	Addresses *services.AddressService
	Phones    *services.PhoneService
	Hobbies   *services.HobbyService
	Stats     *database.StatsStore
	// Events serves the websocket stream; nil leaves /api/events unmounted.
	Events         http.HandlerFunc
	AllowedOrigins []string
	Log            *logger.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler.Handler)

	personHandler := &PersonHandler{Persons: d.Persons, Stats: d.Stats, Log: d.Log}
	hobbyHandler := &HobbyHandler{Hobbies: d.Hobbies, Persons: d.Persons, Log: d.Log}
	phoneHandler := &PhoneHandler{Phones: d.Phones, Log: d.Log}
	addressHandler := &AddressHandler{Addresses: d.Addresses, Log: d.Log}
	statsHandler := &StatsHandler{Stats: d.Stats, Log: d.Log}

	r.Route("/api", func(r chi.Router) {
		// long-lived; must stay outside the request timeout
		if d.Events != nil {
			r.Get("/events", d.Events)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Route("/person", func(r chi.Router) {
				r.Get("/", personHandler.ListPersons)
				r.Post("/", personHandler.CreatePerson)
				r.Put("/", personHandler.UpdatePerson)
				r.Get("/count", personHandler.CountPersons)
				r.Get("/id/{id}", personHandler.GetPersonByID)
				r.Get("/number/{number}", personHandler.GetPersonByNumber)
				r.Get("/zipcode/{zipcode}", personHandler.GetPersonsByZipcode)
				r.Get("/has-hobby/{name}", personHandler.GetPersonsByHobby)
				r.Get("/has-hobby/{name}/count", personHandler.CountPersonsByHobby)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", personHandler.UpdatePerson)
					r.Delete("/", personHandler.DeletePerson)
					r.Delete("/address", personHandler.RemoveAddress)
				})
			})

			r.Delete("/address/{id}", addressHandler.DeleteAddress)

			r.Route("/hobby", func(r chi.Router) {
				r.Get("/", hobbyHandler.ListHobbies)
				r.Get("/count", hobbyHandler.CountHobbies)
				r.Get("/search/{query}", hobbyHandler.SearchHobbies)
				r.Route("/{name}", func(r chi.Router) {
					r.Get("/", hobbyHandler.GetHobby)
					r.Get("/persons", hobbyHandler.ListPersons)
					r.Get("/persons/count", hobbyHandler.CountPersons)
				})
			})

			r.Route("/phone", func(r chi.Router) {
				r.Get("/", phoneHandler.ListPhones)
				r.Delete("/{number}", phoneHandler.RemovePhone)
			})

			r.Get("/stats", statsHandler.GetStats)
		})
	})

	return r
}
