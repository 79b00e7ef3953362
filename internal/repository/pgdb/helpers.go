package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

func pgCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func postgresDuplicate(err error) bool {
	code, _ := pgCode(err)
	return code == uniqueViolation
}

func postgresForeignKey(err error) bool {
	code, _ := pgCode(err)
	return code == foreignKeyViolation
}

func postgresCheck(err error) bool {
	code, _ := pgCode(err)
	return code == checkViolation
}

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func constraintOf(err error) string {
	_, constraint := pgCode(err)
	return constraint
}
