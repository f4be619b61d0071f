package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

const castingsTable = "castings"

// castingSelect joins the actor name and movie title onto each casting
const castingSelect = `
	SELECT c.id, c.role_name, c.actor_id, a.name, c.movie_id, m.title, c.created_at
	FROM castings c
	JOIN actors a ON a.id = c.actor_id
	JOIN movies m ON m.id = c.movie_id
`

// CastingRepository implements the repositories.CastingRepository interface
type CastingRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCastingRepository creates a new casting repository
func NewCastingRepository(db *DB, logger *zap.Logger) repositories.CastingRepository {
	return &CastingRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a casting. A zero ID is assigned by the database.
func (r *CastingRepository) Create(ctx context.Context, casting *models.Casting) error {
	executor := GetExecutor(ctx, r.db)

	if casting.ID == 0 {
		query := `
			INSERT INTO castings (role_name, actor_id, movie_id, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		err := executor.QueryRowContext(ctx, query,
			casting.RoleName,
			casting.ActorID,
			casting.MovieID,
			casting.CreatedAt,
		).Scan(&casting.ID)
		if err != nil {
			return fmt.Errorf("failed to create casting: %w", translateError(err))
		}
	} else {
		query := `
			INSERT INTO castings (id, role_name, actor_id, movie_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err := executor.ExecContext(ctx, query,
			casting.ID,
			casting.RoleName,
			casting.ActorID,
			casting.MovieID,
			casting.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create casting: %w", translateError(err))
		}
		if err := syncSequence(ctx, executor, castingsTable); err != nil {
			return err
		}
	}

	r.logger.Debug("casting created",
		zap.Int64("id", casting.ID),
		zap.Int64("actor_id", casting.ActorID),
		zap.Int64("movie_id", casting.MovieID),
	)
	return nil
}

// GetByID retrieves a casting with its actor and movie names
func (r *CastingRepository) GetByID(ctx context.Context, id int64) (*models.Casting, error) {
	query := castingSelect + `WHERE c.id = $1`

	executor := GetExecutor(ctx, r.db)
	casting := &models.Casting{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&casting.ID,
		&casting.RoleName,
		&casting.ActorID,
		&casting.ActorName,
		&casting.MovieID,
		&casting.MovieTitle,
		&casting.CreatedAt,
	)
	if err != nil {
		if err = translateError(err); errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get casting: %w", err)
	}

	return casting, nil
}

// List retrieves all castings ordered by id
func (r *CastingRepository) List(ctx context.Context) ([]*models.Casting, error) {
	query := castingSelect + `ORDER BY c.id`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list castings: %w", err)
	}
	defer rows.Close()

	castings := make([]*models.Casting, 0)
	for rows.Next() {
		casting := &models.Casting{}
		err := rows.Scan(
			&casting.ID,
			&casting.RoleName,
			&casting.ActorID,
			&casting.ActorName,
			&casting.MovieID,
			&casting.MovieTitle,
			&casting.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan casting: %w", err)
		}
		castings = append(castings, casting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating casting rows: %w", err)
	}

	return castings, nil
}

// Delete removes a casting
func (r *CastingRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, GetExecutor(ctx, r.db), castingsTable, id); err != nil {
		return err
	}
	r.logger.Debug("casting deleted", zap.Int64("id", id))
	return nil
}

// Exists reports whether a casting with id exists
func (r *CastingRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, GetExecutor(ctx, r.db), castingsTable, id)
}
