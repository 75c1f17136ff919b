package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nightshift/internal/api/request"
	"github.com/mcoot/nightshift/internal/api/response"
	"github.com/mcoot/nightshift/internal/services/profile"
	"github.com/mcoot/nightshift/internal/services/social"
)

// UserHandler handles profile and friendship endpoints
type UserHandler struct {
	profiles *profile.Service
	social   *social.Manager
}

// NewUserHandler creates a new user handler
func NewUserHandler(profiles *profile.Service, social *social.Manager) *UserHandler {
	return &UserHandler{
		profiles: profiles,
		social:   social,
	}
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.NewUserList(h.profiles.AllUsers()))
}

// Search handles GET /api/v1/users/search?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		WriteError(w, NewInvalidRequestError("q is required"))
		return
	}
	response.JSON(w, http.StatusOK, response.NewUserList(h.profiles.Search(q)))
}

// Get handles GET /api/v1/users/{username}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(mux.Vars(r)["username"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

// Friends handles GET /api/v1/users/{username}/friends
func (h *UserHandler) Friends(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if _, err := h.profiles.Get(username); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Friends{
		Username: username,
		Friends:  h.social.Friends(username),
		Requests: h.social.Requests(username),
	})
}

// Verify handles POST /api/v1/users/{username}/verify
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	if err := h.profiles.VerifyPassword(mux.Vars(r)["username"], req.Password); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
