package galaroutes

import (
	"errors"
	"net/http"

	galarest "github.com/gala-events/gala-api/gala-rest"
	"github.com/gala-events/gala-api/eventdao"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListEvents(w http.ResponseWriter, req *http.Request) {
	events, err := h.Events.List(req.Context())
	if err != nil {
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusOK, events)
}

func (h *Handler) GetEvent(w http.ResponseWriter, req *http.Request) {
	ev, err := h.Events.Find(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		if errors.Is(err, eventdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusOK, ev)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, req *http.Request) {
	var ev eventdao.Event
	if err := decode(req, &ev); err != nil {
		badRequest(w)
		return
	}
	if ev.Title == "" {
		galarest.Error(w, http.StatusBadRequest, "Title is required")
		return
	}

	created, err := h.Events.Create(req.Context(), ev)
	if err != nil {
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, req *http.Request) {
	var ev eventdao.Event
	if err := decode(req, &ev); err != nil {
		badRequest(w)
		return
	}

	id := chi.URLParam(req, "id")
	if err := h.Events.Update(req.Context(), id, ev); err != nil {
		if errors.Is(err, eventdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := h.Events.Delete(req.Context(), id); err != nil {
		if errors.Is(err, eventdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) AddTransaction(w http.ResponseWriter, req *http.Request) {
	var tx eventdao.Transaction
	if err := decode(req, &tx); err != nil {
		badRequest(w)
		return
	}
	if tx.ID == "" {
		galarest.Error(w, http.StatusBadRequest, "Transaction id is required")
		return
	}

	id := chi.URLParam(req, "id")
	if err := h.Events.AddTransaction(req.Context(), id, tx); err != nil {
		if errors.Is(err, eventdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Event not found")
			return
		}
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusCreated, tx)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, req *http.Request) {
	var tx eventdao.Transaction
	if err := decode(req, &tx); err != nil {
		badRequest(w)
		return
	}

	id := chi.URLParam(req, "id")
	txID := chi.URLParam(req, "txID")
	if err := h.Events.UpdateTransaction(req.Context(), id, txID, tx); err != nil {
		if errors.Is(err, eventdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Transaction not found")
			return
		}
		serverError(w, req, err)
		return
	}
	tx.ID = txID
	galarest.JSON(w, http.StatusOK, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	txID := chi.URLParam(req, "txID")
	if err := h.Events.DeleteTransaction(req.Context(), id, txID); err != nil {
		if errors.Is(err, eventdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Transaction not found")
			return
		}
		serverError(w, req, err)
		return
	}
	galarest.JSON(w, http.StatusOK, map[string]string{"id": txID})
}
