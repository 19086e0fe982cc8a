package postgres

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

// psql builds queries with postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
