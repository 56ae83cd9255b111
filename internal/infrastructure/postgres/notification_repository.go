package postgres

import (
	"context"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo buzón de notificaciones sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO notifications (id, title, message, category, created_at, read) VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.Title, n.Message, n.Category, n.Timestamp, n.Read)
	return wrap("create notification", err)
}

func (r *NotificationRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, title, message, category, created_at, read FROM notifications
		WHERE NOT $1 OR read = false
		ORDER BY created_at DESC, id DESC LIMIT $2`, unreadOnly, limit)
	if err != nil {
		return nil, wrap("list notifications", err)
	}
	defer rows.Close()
	list := []*entity.Notification{}
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Category, &n.Timestamp, &n.Read); err != nil {
			return nil, wrap("scan notification", err)
		}
		list = append(list, &n)
	}
	return list, wrap("list notifications", rows.Err())
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return wrap("mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
