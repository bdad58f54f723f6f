package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateKey señala una violación de restricción de unicidad.
// Los servicios la usan para resolver la carrera de find-or-create.
var ErrDuplicateKey = errors.New("duplicate key")

// SQLSTATE 23505: unique_violation.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateKey
	}
	return err
}
