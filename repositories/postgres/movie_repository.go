package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

const moviesTable = "movies"

// MovieRepository implements the repositories.MovieRepository interface
type MovieRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *DB, logger *zap.Logger) repositories.MovieRepository {
	return &MovieRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a movie. A zero ID is assigned by the database.
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	executor := GetExecutor(ctx, r.db)

	if movie.ID == 0 {
		query := `
			INSERT INTO movies (title, release_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		err := executor.QueryRowContext(ctx, query,
			movie.Title,
			movie.ReleaseDate,
			movie.CreatedAt,
			movie.UpdatedAt,
		).Scan(&movie.ID)
		if err != nil {
			return fmt.Errorf("failed to create movie: %w", translateError(err))
		}
	} else {
		query := `
			INSERT INTO movies (id, title, release_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err := executor.ExecContext(ctx, query,
			movie.ID,
			movie.Title,
			movie.ReleaseDate,
			movie.CreatedAt,
			movie.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create movie: %w", translateError(err))
		}
		if err := syncSequence(ctx, executor, moviesTable); err != nil {
			return err
		}
	}

	r.logger.Debug("movie created", zap.Int64("id", movie.ID))
	return nil
}

// GetByID retrieves a movie by ID
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	query := `
		SELECT id, title, release_date, created_at, updated_at
		FROM movies
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	movie := &models.Movie{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseDate,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		if err = translateError(err); errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return movie, nil
}

// List retrieves all movies ordered by id
func (r *MovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	query := `
		SELECT id, title, release_date, created_at, updated_at
		FROM movies
		ORDER BY id
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*models.Movie, 0)
	for rows.Next() {
		movie := &models.Movie{}
		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.ReleaseDate,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movie rows: %w", err)
	}

	return movies, nil
}

// Update overwrites the mutable fields of a movie
func (r *MovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	query := `
		UPDATE movies
		SET title = $2,
		    release_date = $3,
		    updated_at = $4
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		movie.ID,
		movie.Title,
		movie.ReleaseDate,
		movie.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("movie updated", zap.Int64("id", movie.ID))
	return nil
}

// Delete removes a movie and its castings
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, GetExecutor(ctx, r.db), moviesTable, id); err != nil {
		return err
	}
	r.logger.Debug("movie deleted", zap.Int64("id", id))
	return nil
}

// Exists reports whether a movie with id exists
func (r *MovieRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, GetExecutor(ctx, r.db), moviesTable, id)
}
