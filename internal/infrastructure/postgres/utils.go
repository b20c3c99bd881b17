package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/materias-primas/internal/domain"
)

// Códigos SQLSTATE que se tratan como contención transitoria.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03" // lock_timeout vencido
	sqlStateUniqueViolation      = "23505"
	sqlStateNumericOutOfRange    = "22003" // saldo acumulado fuera de NUMERIC(18,4)
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateUniqueViolation
	}
	return strings.Contains(err.Error(), sqlStateUniqueViolation)
}

// mapError traduce errores de PostgreSQL a errores de dominio. Serialización, deadlock y
// lock_timeout se reportan como domain.ErrConcurrencyConflict para que el motor reintente.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		case sqlStateNumericOutOfRange:
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	}
	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
