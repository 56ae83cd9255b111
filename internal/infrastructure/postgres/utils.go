package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hotwellkz/warehouse-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// wrap traduce errores de PostgreSQL a errores de dominio conservando el original.
// Conflictos de serialización y deadlocks se tratan como modificación concurrente; fallos de
// conexión como almacenamiento no disponible. Ambos se reintentan en el servicio.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
	case errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01"):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrentModification, err)
	case errors.As(err, &pgErr) && pgErr.Code == "23503":
		// FK: la carpeta referida fue borrada por otra transacción.
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNotFound, err)
	case errors.As(err, &pgErr) && pgErr.Code == "23514":
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidValue, err)
	case errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08"):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
	case errors.As(err, &pgErr):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case pgconn.SafeToRetry(err), isNetError(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
