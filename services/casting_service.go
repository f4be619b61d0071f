package services

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// CreateCastingInput is the body of POST /castings
type CreateCastingInput struct {
	ID       *int64 `json:"id" validate:"omitnil,gt=0"`
	RoleName string `json:"role_name" validate:"max=255"`
	ActorID  int64  `json:"actor_id" validate:"required,gt=0"`
	MovieID  int64  `json:"movie_id" validate:"required,gt=0"`
}

// CastingService implements the casting use cases
type CastingService struct {
	castings repositories.CastingRepository
	actors   repositories.ActorRepository
	movies   repositories.MovieRepository
	txMgr    repositories.TransactionManager
	logger   *zap.Logger
}

// NewCastingService creates a new CastingService instance
func NewCastingService(
	castings repositories.CastingRepository,
	actors repositories.ActorRepository,
	movies repositories.MovieRepository,
	txMgr repositories.TransactionManager,
	logger *zap.Logger,
) *CastingService {
	return &CastingService{
		castings: castings,
		actors:   actors,
		movies:   movies,
		txMgr:    txMgr,
		logger:   logger,
	}
}

// List returns every casting with its actor and movie names
func (s *CastingService) List(ctx context.Context) ([]*models.Casting, error) {
	castings, err := s.castings.List(ctx)
	if err != nil {
		return nil, ErrDatabaseError.Wrap(err)
	}
	return castings, nil
}

// Get returns the casting with id
func (s *CastingService) Get(ctx context.Context, id int64) (*models.Casting, error) {
	casting, err := s.castings.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err)
	}
	return casting, nil
}

// Create stores a casting. The id, actor and movie checks and the insert
// share one transaction.
func (s *CastingService) Create(ctx context.Context, in CreateCastingInput) (*models.Casting, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, invalidInput(utils.GetValidationFields(err), err)
	}

	casting, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Casting, error) {
		var id int64
		if in.ID != nil {
			id = *in.ID
			taken, err := s.castings.Exists(ctx, id)
			if err != nil {
				return nil, ErrDatabaseError.Wrap(err)
			}
			if taken {
				return nil, ErrDuplicateID.WithDetail("id", "casting id already exists")
			}
		}

		actorFound, err := s.actors.Exists(ctx, in.ActorID)
		if err != nil {
			return nil, ErrDatabaseError.Wrap(err)
		}
		movieFound, err := s.movies.Exists(ctx, in.MovieID)
		if err != nil {
			return nil, ErrDatabaseError.Wrap(err)
		}
		if !actorFound || !movieFound {
			e := ErrUnknownActorOrMovie
			if !actorFound {
				e = e.WithDetail("actor_id", "actor does not exist")
			}
			if !movieFound {
				e = e.WithDetail("movie_id", "movie does not exist")
			}
			return nil, e
		}

		casting := models.NewCasting(id, in.RoleName, in.ActorID, in.MovieID)
		if err := s.castings.Create(ctx, casting); err != nil {
			switch {
			case errors.Is(err, repositories.ErrDuplicate):
				return nil, ErrDuplicateID.WithDetail("id", "casting id already exists")
			case errors.Is(err, repositories.ErrInvalidReference):
				return nil, ErrUnknownActorOrMovie.Wrap(err)
			}
			return nil, ErrDatabaseError.Wrap(err)
		}

		created, err := s.castings.GetByID(ctx, casting.ID)
		if err != nil {
			return nil, ErrDatabaseError.Wrap(err)
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("casting created",
		zap.Int64("casting_id", casting.ID),
		zap.Int64("actor_id", casting.ActorID),
		zap.Int64("movie_id", casting.MovieID),
	)
	return casting, nil
}

// Delete removes the casting with id
func (s *CastingService) Delete(ctx context.Context, id int64) error {
	if err := s.castings.Delete(ctx, id); err != nil {
		return s.lookupError(err)
	}
	s.logger.Info("casting deleted", zap.Int64("casting_id", id))
	return nil
}

func (s *CastingService) lookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrCastingNotFound
	}
	return ErrDatabaseError.Wrap(err)
}
