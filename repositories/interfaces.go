package repositories

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
)

var (
	// ErrNotFound is returned when no row matches the requested id
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an explicit id is already taken
	ErrDuplicate = errors.New("record already exists")

	// ErrInvalidReference is returned when a foreign key points at nothing
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error

	// Context returns a context that routes repository calls through the transaction
	Context() context.Context
}

// ActorRepository handles actor data operations
type ActorRepository interface {
	// Create inserts actor, assigning actor.ID when it is zero
	Create(ctx context.Context, actor *models.Actor) error
	GetByID(ctx context.Context, id int64) (*models.Actor, error)
	List(ctx context.Context) ([]*models.Actor, error)
	Update(ctx context.Context, actor *models.Actor) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// MovieRepository handles movie data operations
type MovieRepository interface {
	// Create inserts movie, assigning movie.ID when it is zero
	Create(ctx context.Context, movie *models.Movie) error
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	List(ctx context.Context) ([]*models.Movie, error)
	Update(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// CastingRepository handles casting data operations. Reads join the
// actor name and movie title.
type CastingRepository interface {
	Create(ctx context.Context, casting *models.Casting) error
	GetByID(ctx context.Context, id int64) (*models.Casting, error)
	List(ctx context.Context) ([]*models.Casting, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Actors   ActorRepository
	Movies   MovieRepository
	Castings CastingRepository
}
