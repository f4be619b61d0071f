package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/casting-agency/repositories"
)

// PostgreSQL error codes the repositories translate.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translateError maps driver errors onto the repositories sentinels.
func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", repositories.ErrDuplicate, pqErr.Constraint)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", repositories.ErrInvalidReference, pqErr.Constraint)
		}
	}
	return err
}

// syncSequence moves table's id sequence past explicitly inserted ids so
// later generated ids do not collide.
func syncSequence(ctx context.Context, exec Executor, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))`,
		table, table,
	)
	if _, err := exec.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to sync %s id sequence: %w", table, err)
	}
	return nil
}

// exists reports whether table has a row with id.
func exists(ctx context.Context, exec Executor, table string, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table)

	var found bool
	if err := exec.QueryRowContext(ctx, query, id).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	return found, nil
}

// deleteByID removes the row with id from table.
func deleteByID(ctx context.Context, exec Executor, table string, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
