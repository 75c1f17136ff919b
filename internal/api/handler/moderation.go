package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nightshift/internal/api/response"
	"github.com/mcoot/nightshift/internal/model"
	"github.com/mcoot/nightshift/internal/services/moderation"
	"github.com/mcoot/nightshift/internal/state"
)

// ModerationHandler reports moderation standing
type ModerationHandler struct {
	store  *state.Store
	engine *moderation.Engine
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(store *state.Store, engine *moderation.Engine) *ModerationHandler {
	return &ModerationHandler{
		store:  store,
		engine: engine,
	}
}

// Status handles GET /api/v1/moderation/{username}
func (h *ModerationHandler) Status(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var st moderation.Status
	h.store.Read(func(snap *model.Snapshot) {
		st = h.engine.Status(&snap.Ledger, username)
	})
	response.JSON(w, http.StatusOK, response.ModerationStatusFromModel(st))
}
