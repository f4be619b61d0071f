package handlers

import (
	"net/http"

	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
)

const moviesKey = "movies"

// ListMovies handles GET /movies
func ListMovies(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movies, err := deps.MovieService.List(r.Context())
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "get all movies", moviesKey, movies)
	}
}

// GetMovie handles GET /movies/{id}
func GetMovie(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = utils.WriteNotFound(w)
			return
		}

		movie, err := deps.MovieService.Get(r.Context(), id)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "get a movie", moviesKey, []*models.Movie{movie})
	}
}

// CreateMovie handles POST /movies
func CreateMovie(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateMovieInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			HandleDecodeError(w, err, deps.Logger)
			return
		}

		movie, err := deps.MovieService.Create(r.Context(), in)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusCreated, "add a new movie", moviesKey, []*models.Movie{movie})
	}
}

// UpdateMovie handles PATCH /movies/{id}
func UpdateMovie(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = utils.WriteNotFound(w)
			return
		}

		var in services.UpdateMovieInput
		if err := utils.DecodeJSON(r, &in); err != nil {
			HandleDecodeError(w, err, deps.Logger)
			return
		}

		movie, err := deps.MovieService.Update(r.Context(), id, in)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "edit an existing movie", moviesKey, []*models.Movie{movie})
	}
}

// DeleteMovie handles DELETE /movies/{id}
func DeleteMovie(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			_ = utils.WriteNotFound(w)
			return
		}

		if err := deps.MovieService.Delete(r.Context(), id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respond(w, deps.Logger, http.StatusOK, "delete an existing movie", "deleted", id)
	}
}
