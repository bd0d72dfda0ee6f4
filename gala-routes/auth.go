package galaroutes

import (
	"errors"
	"net/http"

	galarest "github.com/gala-events/gala-api/gala-rest"
	"github.com/gala-events/gala-api/authdao"
	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := decode(req, &body); err != nil {
		badRequest(w)
		return
	}

	cred, err := h.Auth.FindByCredentials(req.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, authdao.ErrNotFound) {
			galarest.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		serverError(w, req, err)
		return
	}

	galarest.JSON(w, http.StatusOK, cred)
}

func (h *Handler) UpdateCredential(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := decode(req, &body); err != nil {
		badRequest(w)
		return
	}
	if body.Username == "" || body.Password == "" {
		galarest.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	role := chi.URLParam(req, "role")
	if err := h.Auth.UpdateCredential(req.Context(), role, body.Username, body.Password); err != nil {
		if errors.Is(err, authdao.ErrNotFound) {
			galarest.Error(w, http.StatusNotFound, "Role not found")
			return
		}
		serverError(w, req, err)
		return
	}

	galarest.JSON(w, http.StatusOK, map[string]string{"role": role, "username": body.Username})
}
