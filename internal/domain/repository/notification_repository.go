package repository

import (
	"context"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// NotificationRepository define el puerto para el buzón de notificaciones internas.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, unreadOnly bool, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
}
