package handlers

import (
	"net/http"

	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
)

const actorsKey = "actors"

// ListActors handles GET /actors
func ListActors(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actors, err := deps.ActorService.List(r.Context())
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "get all actors", actorsKey, actors)
	}
}

// GetActor handles GET /actors/{id}
func GetActor(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = utils.WriteNotFound(w)
			return
		}

		actor, err := deps.ActorService.Get(r.Context(), id)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "get a actor", actorsKey, []*models.Actor{actor})
	}
}

// CreateActor handles POST /actors
func CreateActor(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateActorInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			HandleDecodeError(w, err, deps.Logger)
			return
		}

		actor, err := deps.ActorService.Create(r.Context(), in)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusCreated, "add a new actor", actorsKey, []*models.Actor{actor})
	}
}

// UpdateActor handles PATCH /actors/{id}
func UpdateActor(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = utils.WriteNotFound(w)
			return
		}

		var in services.UpdateActorInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			HandleDecodeError(w, err, deps.Logger)
			return
		}

		actor, err := deps.ActorService.Update(r.Context(), id, in)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "edit an existing actor", actorsKey, []*models.Actor{actor})
	}
}

// DeleteActor handles DELETE /actors/{id}
func DeleteActor(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = utils.WriteNotFound(w)
			return
		}

		if err := deps.ActorService.Delete(r.Context(), id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "delete an existing actor", "deleted", id)
	}
}
