package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nsyszr/rcm/pkg/storage"
	"github.com/pkg/errors"
)

// insertReturningID inserts arg into table using the named params and
// returns the generated serial id.
func insertReturningID(ctx context.Context, db *sqlx.DB, table string, params []string, arg interface{}) (int64, error) {
	// Remove the id column because it's of SQL type serial
	paramsWithoutID := make([]string, 0, len(params))
	for _, p := range params {
		if p != "id" {
			paramsWithoutID = append(paramsWithoutID, p)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table,
		strings.Join(paramsWithoutID, ", "),
		":"+strings.Join(paramsWithoutID, ", :"),
	)
	rows, err := db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var id int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, errors.New("insert returned no id")
	}
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

// deleteByID removes the row with the given id from table. Ids that are not
// integers cannot exist and report ErrNotFound.
func deleteByID(ctx context.Context, db *sqlx.DB, table, id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1", table), n)
	if err != nil {
		return errors.Wrapf(err, "failed to delete from %s", table)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "failed to delete from %s", table)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// now is truncated to the microsecond precision of timestamptz.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
