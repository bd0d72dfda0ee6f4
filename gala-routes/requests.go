package galaroutes

import (
	"errors"
	"net/http"

	galarest "github.com/gala-events/gala-api/gala-rest"
	"github.com/gala-events/gala-api/requestdao"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListRequests(w http.ResponseWriter, req *http.Request) {
	requests, err := h.Requests.List(req.Context())
	if err != nil {
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusOK, requests)
}

func (h *Handler) CreateRequest(w http.ResponseWriter, req *http.Request) {
	var r requestdao.Request
	if err := decode(req, &r); err != nil {
		badRequest(w)
		return
	}
	if r.Name == "" || r.Message == "" {
		galarest.Error(w, http.StatusBadRequest, "Name and message are required")
		return
	}

	created, err := h.Requests.Create(req.Context(), r)
	if err != nil {
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusCreated, created)
}

func (h *Handler) MarkRequestRead(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := h.Requests.MarkRead(req.Context(), id); err != nil {
		if errors.Is(err, requestdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Request not found")
			return
		}
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := h.Requests.Delete(req.Context(), id); err != nil {
		if errors.Is(err, requestdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Request not found")
			return
		}
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusOK, map[string]string{"id": id})
}
