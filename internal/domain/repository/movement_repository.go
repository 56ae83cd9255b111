package repository

import (
	"context"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos (solo inserción;
// el borrado existe únicamente para la reversión y la baja del producto).
type MovementRepository interface {
	// Create asigna ID (si falta) y Seq antes de persistir.
	Create(ctx context.Context, movement *entity.MovementEntry) error
	GetByID(ctx context.Context, id string) (*entity.MovementEntry, error)
	// ListByProduct devuelve los movimientos más recientes primero.
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.MovementEntry, error)
	// ListSince devuelve, en orden de Seq ascendente, los movimientos con Seq > afterSeq.
	ListSince(ctx context.Context, productID string, afterSeq int64) ([]*entity.MovementEntry, error)
	LastSeq(ctx context.Context, productID string) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
}
