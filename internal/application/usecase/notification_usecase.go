package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hotwellkz/warehouse-api/internal/application/dto"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

// NotificationUseCase buzón de notificaciones internas.
type NotificationUseCase struct {
	repo    repository.NotificationRepository
	printer *message.Printer
	now     func() time.Time
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		repo:    repo,
		printer: message.NewPrinter(language.Russian),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RecordLowStock guarda la notificación de un cruce del mínimo.
func (uc *NotificationUseCase) RecordLowStock(ctx context.Context, s ledger.LowStock) (*entity.Notification, error) {
	n := &entity.Notification{
		ID:        uuid.NewString(),
		Title:     "Низкий остаток",
		Message:   uc.LowStockMessage(s),
		Category:  entity.NotificationLowStock,
		Timestamp: uc.now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// LowStockMessage texto en ruso con las cantidades formateadas según la configuración regional.
func (uc *NotificationUseCase) LowStockMessage(s ledger.LowStock) string {
	return uc.printer.Sprintf("Товар «%s» (%s): осталось %d %s при минимуме %d %s",
		s.ProductName, entity.WarehouseName(s.WarehouseID), s.Quantity, s.Unit, s.MinQuantity, s.Unit)
}

// List devuelve las notificaciones más recientes primero.
func (uc *NotificationUseCase) List(ctx context.Context, unreadOnly bool, limit int) ([]dto.NotificationResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	list, err := uc.repo.List(ctx, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, dto.ToNotificationResponse(n))
	}
	return items, nil
}

// MarkRead marca la notificación como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	return uc.repo.MarkRead(ctx, id)
}
