package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementa MovementRepository en memoria. Seq se asigna al confirmar.
type MovementRepo struct {
	s  *Store
	tx *tx
}

func (r *MovementRepo) Create(_ context.Context, m *entity.MovementEntry) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.s.exec(r.tx, func(st *state) error {
		if _, ok := st.movements[m.ID]; ok {
			return domain.ErrDuplicate
		}
		st.seq++
		m.Seq = st.seq
		c := *m
		st.movements[c.ID] = &c
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.MovementEntry, error) {
	var out *entity.MovementEntry
	r.s.read(func(st *state) {
		if m, ok := st.movements[id]; ok {
			c := *m
			out = &c
		}
	})
	return out, nil
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.MovementEntry, error) {
	out := r.byProduct(productID, 0)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	return page(out, limit, offset), nil
}

func (r *MovementRepo) ListSince(_ context.Context, productID string, afterSeq int64) ([]*entity.MovementEntry, error) {
	out := r.byProduct(productID, afterSeq)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *MovementRepo) LastSeq(_ context.Context, productID string) (int64, error) {
	var last int64
	r.s.read(func(st *state) {
		for _, m := range st.movements {
			if m.ProductID == productID && m.Seq > last {
				last = m.Seq
			}
		}
	})
	return last, nil
}

func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.s.exec(r.tx, func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.movements, id)
		return nil
	})
}

func (r *MovementRepo) DeleteByProduct(_ context.Context, productID string) (int64, error) {
	n := int64(len(r.byProduct(productID, 0)))
	err := r.s.exec(r.tx, func(st *state) error {
		for id, m := range st.movements {
			if m.ProductID == productID {
				delete(st.movements, id)
			}
		}
		return nil
	})
	return n, err
}

func (r *MovementRepo) byProduct(productID string, afterSeq int64) []*entity.MovementEntry {
	out := []*entity.MovementEntry{}
	r.s.read(func(st *state) {
		for _, m := range st.movements {
			if m.ProductID == productID && m.Seq > afterSeq {
				c := *m
				out = append(out, &c)
			}
		}
	})
	return out
}
