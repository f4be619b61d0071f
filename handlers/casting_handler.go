package handlers

import (
	"net/http"

	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
)

// Castings are reported as roles on the wire.
const rolesKey = "roles"

// ListCastings handles GET /castings
func ListCastings(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		castings, err := deps.CastingService.List(r.Context())
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "get all roles", rolesKey, castings)
	}
}

// GetCasting handles GET /castings/{id}
func GetCasting(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = utils.WriteNotFound(w)
			return
		}

		casting, err := deps.CastingService.Get(r.Context(), id)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "get a role", rolesKey, []*models.Casting{casting})
	}
}

// CreateCasting handles POST /castings
func CreateCasting(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateCastingInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			HandleDecodeError(w, err, deps.Logger)
			return
		}

		casting, err := deps.CastingService.Create(r.Context(), in)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusCreated, "add a new role", rolesKey, []*models.Casting{casting})
	}
}

// DeleteCasting handles DELETE /castings/{id}
func DeleteCasting(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = utils.WriteNotFound(w)
			return
		}

		if err := deps.CastingService.Delete(r.Context(), id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "delete an role", "deleted", id)
	}
}
