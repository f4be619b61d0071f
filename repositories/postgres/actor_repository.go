package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

const actorsTable = "actors"

// ActorRepository implements the repositories.ActorRepository interface
type ActorRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewActorRepository creates a new actor repository
func NewActorRepository(db *DB, logger *zap.Logger) repositories.ActorRepository {
	return &ActorRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an actor. A zero ID is assigned by the database.
func (r *ActorRepository) Create(ctx context.Context, actor *models.Actor) error {
	executor := GetExecutor(ctx, r.db)

	if actor.ID == 0 {
		query := `
			INSERT INTO actors (name, age, gender, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err := executor.QueryRowContext(ctx, query,
			actor.Name,
			actor.Age,
			actor.Gender,
			actor.CreatedAt,
			actor.UpdatedAt,
		).Scan(&actor.ID)
		if err != nil {
			return fmt.Errorf("failed to create actor: %w", translateError(err))
		}
	} else {
		query := `
			INSERT INTO actors (id, name, age, gender, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := executor.ExecContext(ctx, query,
			actor.ID,
			actor.Name,
			actor.Age,
			actor.Gender,
			actor.CreatedAt,
			actor.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create actor: %w", translateError(err))
		}
		if err := syncSequence(ctx, executor, actorsTable); err != nil {
			return err
		}
	}

	r.logger.Debug("actor created", zap.Int64("id", actor.ID))
	return nil
}

// GetByID retrieves an actor by ID
func (r *ActorRepository) GetByID(ctx context.Context, id int64) (*models.Actor, error) {
	query := `
		SELECT id, name, age, gender, created_at, updated_at
		FROM actors
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	actor := &models.Actor{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&actor.ID,
		&actor.Name,
		&actor.Age,
		&actor.Gender,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	)
	if err != nil {
		if err = translateError(err); errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}

	return actor, nil
}

// List retrieves all actors ordered by id
func (r *ActorRepository) List(ctx context.Context) ([]*models.Actor, error) {
	query := `
		SELECT id, name, age, gender, created_at, updated_at
		FROM actors
		ORDER BY id
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	actors := make([]*models.Actor, 0)
	for rows.Next() {
		actor := &models.Actor{}
		err := rows.Scan(
			&actor.ID,
			&actor.Name,
			&actor.Age,
			&actor.Gender,
			&actor.CreatedAt,
			&actor.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, actor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actor rows: %w", err)
	}

	return actors, nil
}

// Update overwrites the mutable fields of an actor
func (r *ActorRepository) Update(ctx context.Context, actor *models.Actor) error {
	query := `
		UPDATE actors
		SET name = $2,
		    age = $3,
		    gender = $4,
		    updated_at = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		actor.ID,
		actor.Name,
		actor.Age,
		actor.Gender,
		actor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update actor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("actor updated", zap.Int64("id", actor.ID))
	return nil
}

// Delete removes an actor and, through the foreign key, its castings
func (r *ActorRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, GetExecutor(ctx, r.db), actorsTable, id); err != nil {
		return err
	}
	r.logger.Debug("actor deleted", zap.Int64("id", id))
	return nil
}

// Exists reports whether an actor with id exists
func (r *ActorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, GetExecutor(ctx, r.db), actorsTable, id)
}
