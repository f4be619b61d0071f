package auth

// Permissions required by each protected operation. Routes pass one of
// these to RequirePermission when they are registered.
const (
	PermGetActors    = "get:actors"
	PermPostActors   = "post:actors"
	PermPatchActors  = "patch:actors"
	PermDeleteActors = "delete:actors"

	PermGetMovies    = "get:movies"
	PermPostMovies   = "post:movies"
	PermPatchMovies  = "patch:movies"
	PermDeleteMovies = "delete:movies"

	PermGetCastings    = "get:castings"
	PermPostCastings   = "post:castings"
	PermDeleteCastings = "delete:castings"
)
