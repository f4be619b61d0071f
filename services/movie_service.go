package services

import (
	"context"
	"errors"
	"time"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// CreateMovieInput is the body of POST /movies. Date is YYYY-MM-DD.
type CreateMovieInput struct {
	ID    *int64 `json:"id" validate:"omitnil,gt=0"`
	Title string `json:"title" validate:"notblank,max=255"`
	Date  string `json:"date" validate:"required,date"`
}

// UpdateMovieInput is the body of PATCH /movies/{id}
type UpdateMovieInput struct {
	Title *string `json:"title" validate:"omitnil,notblank,max=255"`
	Date  *string `json:"date" validate:"omitnil,date"`
}

func (in UpdateMovieInput) empty() bool {
	return in.Title == nil && in.Date == nil
}

// MovieService implements the movie use cases
type MovieService struct {
	movies repositories.MovieRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewMovieService creates a new MovieService instance
func NewMovieService(movies repositories.MovieRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *MovieService {
	return &MovieService{
		movies: movies,
		txMgr:  txMgr,
		logger: logger,
	}
}

// List returns every movie
func (s *MovieService) List(ctx context.Context) ([]*models.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, ErrDatabaseError.Wrap(err)
	}
	return movies, nil
}

// Get returns the movie with id
func (s *MovieService) Get(ctx context.Context, id int64) (*models.Movie, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err)
	}
	return movie, nil
}

// Create validates in and stores a new movie
func (s *MovieService) Create(ctx context.Context, in CreateMovieInput) (*models.Movie, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, invalidInput(utils.GetValidationFields(err), err)
	}
	// Layout already checked by the date tag.
	release, _ := time.Parse(utils.DateLayout, in.Date)

	create := func(ctx context.Context) (*models.Movie, error) {
		var id int64
		if in.ID != nil {
			id = *in.ID
			taken, err := s.movies.Exists(ctx, id)
			if err != nil {
				return nil, ErrDatabaseError.Wrap(err)
			}
			if taken {
				return nil, ErrDuplicateID.WithDetail("id", "movie id already exists")
			}
		}

		movie := models.NewMovie(id, in.Title, release)
		if err := s.movies.Create(ctx, movie); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, ErrDuplicateID.WithDetail("id", "movie id already exists")
			}
			return nil, ErrDatabaseError.Wrap(err)
		}
		return movie, nil
	}

	var (
		movie *models.Movie
		err   error
	)
	if in.ID == nil {
		movie, err = create(ctx)
	} else {
		// The id check, the insert and the sequence sync commit together.
		movie, err = WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) (*models.Movie, error) {
			return create(ctx)
		})
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("movie created", zap.Int64("movie_id", movie.ID))
	return movie, nil
}

// Update applies every supplied field of in to the movie with id
func (s *MovieService) Update(ctx context.Context, id int64, in UpdateMovieInput) (*models.Movie, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, invalidInput(utils.GetValidationFields(err), err)
	}
	if in.empty() {
		return nil, ErrNoFieldsToUpdate
	}

	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err)
	}

	if in.Title != nil {
		movie.Title = *in.Title
	}
	if in.Date != nil {
		movie.ReleaseDate, _ = time.Parse(utils.DateLayout, *in.Date)
	}
	movie.UpdatedAt = time.Now().UTC()

	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, s.lookupError(err)
	}

	s.logger.Info("movie updated", zap.Int64("movie_id", id))
	return movie, nil
}

// Delete removes the movie with id together with its castings
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		return s.lookupError(err)
	}
	s.logger.Info("movie deleted", zap.Int64("movie_id", id))
	return nil
}

func (s *MovieService) lookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrMovieNotFound
	}
	return ErrDatabaseError.Wrap(err)
}
