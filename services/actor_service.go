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

// CreateActorInput is the body of POST /actors. ID is optional.
type CreateActorInput struct {
	ID     *int64 `json:"id" validate:"omitnil,gt=0"`
	Name   string `json:"name" validate:"notblank,max=255"`
	Age    *int   `json:"age" validate:"required,gte=0"`
	Gender string `json:"gender" validate:"max=50"`
}

// UpdateActorInput is the body of PATCH /actors/{id}. Nil fields are left alone.
type UpdateActorInput struct {
	Name   *string `json:"name" validate:"omitnil,notblank,max=255"`
	Age    *int    `json:"age" validate:"omitnil,gte=0"`
	Gender *string `json:"gender" validate:"omitnil,max=50"`
}

func (in UpdateActorInput) empty() bool {
	return in.Name == nil && in.Age == nil && in.Gender == nil
}

// ActorService implements the actor use cases
type ActorService struct {
	actors repositories.ActorRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewActorService creates a new ActorService instance
func NewActorService(actors repositories.ActorRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *ActorService {
	return &ActorService{
		actors: actors,
		txMgr:  txMgr,
		logger: logger,
	}
}

// List returns every actor
func (s *ActorService) List(ctx context.Context) ([]*models.Actor, error) {
	actors, err := s.actors.List(ctx)
	if err != nil {
		return nil, ErrDatabaseError.Wrap(err)
	}
	return actors, nil
}

// Get returns the actor with id
func (s *ActorService) Get(ctx context.Context, id int64) (*models.Actor, error) {
	actor, err := s.actors.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err)
	}
	return actor, nil
}

// Create validates in and stores a new actor
func (s *ActorService) Create(ctx context.Context, in CreateActorInput) (*models.Actor, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, invalidInput(utils.GetValidationFields(err), err)
	}

	create := func(ctx context.Context) (*models.Actor, error) {
		var id int64
		if in.ID != nil {
			id = *in.ID
			taken, err := s.actors.Exists(ctx, id)
			if err != nil {
				return nil, ErrDatabaseError.Wrap(err)
			}
			if taken {
				return nil, ErrDuplicateID.WithDetail("id", "actor id already exists")
			}
		}

		actor := models.NewActor(id, in.Name, *in.Age, in.Gender)
		if err := s.actors.Create(ctx, actor); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, ErrDuplicateID.WithDetail("id", "actor id already exists")
			}
			return nil, ErrDatabaseError.Wrap(err)
		}
		return actor, nil
	}

	var (
		actor *models.Actor
		err   error
	)
	if in.ID == nil {
		actor, err = create(ctx)
	} else {
		// The id check, the insert and the sequence sync commit together.
		actor, err = WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) (*models.Actor, error) {
			return create(ctx)
		})
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("actor created", zap.Int64("actor_id", actor.ID))
	return actor, nil
}

// Update applies every supplied field of in to the actor with id
func (s *ActorService) Update(ctx context.Context, id int64, in UpdateActorInput) (*models.Actor, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, invalidInput(utils.GetValidationFields(err), err)
	}
	if in.empty() {
		return nil, ErrNoFieldsToUpdate
	}

	actor, err := s.actors.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err)
	}

	if in.Name != nil {
		actor.Name = *in.Name
	}
	if in.Age != nil {
		actor.Age = *in.Age
	}
	if in.Gender != nil {
		actor.Gender = *in.Gender
	}
	actor.UpdatedAt = time.Now().UTC()

	if err := s.actors.Update(ctx, actor); err != nil {
		return nil, s.lookupError(err)
	}

	s.logger.Info("actor updated", zap.Int64("actor_id", id))
	return actor, nil
}

// Delete removes the actor with id together with its castings
func (s *ActorService) Delete(ctx context.Context, id int64) error {
	if err := s.actors.Delete(ctx, id); err != nil {
		return s.lookupError(err)
	}
	s.logger.Info("actor deleted", zap.Int64("actor_id", id))
	return nil
}

func (s *ActorService) lookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrActorNotFound
	}
	return ErrDatabaseError.Wrap(err)
}
