package memory

import (
	"context"
	"sort"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementa NotificationRepository en memoria.
type NotificationRepo struct {
	s *Store
}

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	c := *n
	return r.s.exec(nil, func(st *state) error {
		if _, ok := st.notifications[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.notifications[c.ID] = &c
		return nil
	})
}

func (r *NotificationRepo) List(_ context.Context, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	out := []*entity.Notification{}
	r.s.read(func(st *state) {
		for _, n := range st.notifications {
			if unreadOnly && n.Read {
				continue
			}
			c := *n
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, limit, 0), nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id string) error {
	return r.s.exec(nil, func(st *state) error {
		n, ok := st.notifications[id]
		if !ok {
			return domain.ErrNotFound
		}
		c := *n
		c.Read = true
		st.notifications[id] = &c
		return nil
	})
}
