package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/filmorate/backend/internal/db"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translatePgError maps constraint violations onto the repository sentinels.
func translatePgError(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// rowExists runs a single-column lookup by id and reports whether it matched.
func rowExists(ctx context.Context, q db.Querier, table string, id int64) (bool, error) {
	var found int64
	err := q.QueryRow(ctx, "SELECT id FROM "+table+" WHERE id = $1", id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s %d: %w", table, id, err)
	}
	return true, nil
}

// requireRow returns ErrNotFound naming kind when the id is absent from table.
func requireRow(ctx context.Context, q db.Querier, table, kind string, id int64) error {
	ok, err := rowExists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

// requireRows checks every id against table and reports the first missing one.
func requireRows(ctx context.Context, q db.Querier, table, kind string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := q.Query(ctx, "SELECT id FROM "+table+" WHERE id = ANY($1)", ids)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", table, err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("scan %s ids: %w", table, err)
	}

	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
		}
	}
	return nil
}
