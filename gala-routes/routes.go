// Package galaroutes wires the CRUD HTTP surface: auth, events with embedded
// transactions, and user requests. Everything under /api sits behind the
// database gate; /health does not, so it answers even with the store down.
package galaroutes

import (
	"context"
	"encoding/json"
	"net/http"

	galacli "github.com/gala-events/gala-api/gala-cli"
	galarest "github.com/gala-events/gala-api/gala-rest"
	"github.com/gala-events/gala-api/authdao"
	"github.com/gala-events/gala-api/eventdao"
	"github.com/gala-events/gala-api/requestdao"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type AuthStore interface {
	FindByCredentials(ctx context.Context, username, password string) (*authdao.Credential, error)
	UpdateCredential(ctx context.Context, role, username, password string) error
}

type EventStore interface {
	List(ctx context.Context) ([]eventdao.Event, error)
	Find(ctx context.Context, id string) (*eventdao.Event, error)
	Create(ctx context.Context, ev eventdao.Event) (*eventdao.Event, error)
	Update(ctx context.Context, id string, ev eventdao.Event) error
	Delete(ctx context.Context, id string) error
	AddTransaction(ctx context.Context, id string, tx eventdao.Transaction) error
	UpdateTransaction(ctx context.Context, id, txID string, tx eventdao.Transaction) error
	DeleteTransaction(ctx context.Context, id, txID string) error
}

type RequestStore interface {
	List(ctx context.Context) ([]requestdao.Request, error)
	Create(ctx context.Context, r requestdao.Request) (*requestdao.Request, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Handler carries the per-entity stores for the route handlers.
type Handler struct {
	Service  galacli.Service
	Auth     AuthStore
	Events   EventStore
	Requests RequestStore
}

// Router assembles the full HTTP surface. Only the /api subtree is gated on
// a live database connection.
func Router(service galacli.Service, db galarest.Ensurer, metrics *galacli.Metrics, h *Handler) chi.Router {
	router := chi.NewRouter()
	galarest.Middlewares(service, router)
	router.Use(galarest.WithTiming(metrics))

	router.Get("/health", h.Health)

	router.Route("/api", func(r chi.Router) {
		r.Use(galarest.Gate(db))
		r.NotFound(notFound)
		r.MethodNotAllowed(notFound)

		r.Post("/auth/login", h.Login)
		r.Put("/auth/{role}", h.UpdateCredential)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Get("/{id}", h.GetEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)

			r.Post("/{id}/transactions", h.AddTransaction)
			r.Put("/{id}/transactions/{txID}", h.UpdateTransaction)
			r.Delete("/{id}/transactions/{txID}", h.DeleteTransaction)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", h.ListRequests)
			r.Post("/", h.CreateRequest)
			r.Put("/{id}/read", h.MarkRequestRead)
			r.Delete("/{id}", h.DeleteRequest)
		})
	})

	return router
}

func (h *Handler) Health(w http.ResponseWriter, req *http.Request) {
	galarest.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Service.Version,
	})
}

func notFound(w http.ResponseWriter, req *http.Request) {
	galarest.Error(w, http.StatusNotFound, "API Endpoint Not Found")
}

func decode(req *http.Request, v interface{}) error {
	return json.NewDecoder(req.Body).Decode(v)
}

func badRequest(w http.ResponseWriter) {
	galarest.Error(w, http.StatusBadRequest, "Invalid request body")
}

func serverError(w http.ResponseWriter, req *http.Request, err error) {
	zerolog.Ctx(req.Context()).Error().Err(err).
		Str("path", req.URL.Path).
		Msg("request failed")
	galarest.Error(w, http.StatusInternalServerError, "Internal Server Error")
}
